// Package ingest orchestrates an ingestion run: pagination resolution, link
// discovery, per-article extraction, and idempotent persistence, with a
// politeness delay between requests and per-article error isolation.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"blogharvest/internal/domain"
	"blogharvest/internal/logger"
	"blogharvest/internal/render"
	"blogharvest/internal/scrape"
	"blogharvest/internal/store"
)

const (
	// DefaultArticleLimit is the number of articles ingested per run.
	DefaultArticleLimit = 5
	// DefaultPolitenessDelay is the fixed pause between consecutive requests
	// to the source site.
	DefaultPolitenessDelay = 2 * time.Second
)

// Selection orders for candidate links on the resolved listing page.
const (
	// OrderForward takes links in discovered order. This matches a last
	// listing page laid out oldest-first.
	OrderForward = "forward"
	// OrderReverse takes links in reverse discovered order, for sources
	// whose last page is laid out newest-first.
	OrderReverse = "reverse"
)

// Session is the browser session a run exclusively owns. Exactly one Close
// is required per run regardless of outcome.
type Session interface {
	render.Loader
	Open(ctx context.Context) error
	Close()
}

// Extractor turns one article URL into a candidate record.
type Extractor interface {
	Extract(ctx context.Context, url string) (*domain.Candidate, error)
}

// Store is the persistence collaborator with a unique constraint on URL.
type Store interface {
	FindByURL(ctx context.Context, url string) (*domain.Article, error)
	Create(ctx context.Context, c *domain.Candidate) (*domain.Article, error)
}

// SessionFactory builds a fresh session. Sessions are never shared across
// concurrent runs.
type SessionFactory func() Session

// ExtractorFactory builds an extractor bound to the run's session.
type ExtractorFactory func(loader render.Loader) Extractor

// Config configures an ingestion run.
type Config struct {
	// ListingURL is the base listing page of the source blog.
	ListingURL string
	// ArticleLimit caps the number of articles ingested per run.
	ArticleLimit int
	// PolitenessDelay is the pause between consecutive article requests.
	PolitenessDelay time.Duration
	// SelectionOrder is OrderForward or OrderReverse; see the constants.
	SelectionOrder string
}

// Ingestor runs the ingestion pipeline. Safe for concurrent runs: every Run
// acquires a fresh session and the store's unique constraint guards against
// duplicate writes.
type Ingestor struct {
	cfg          Config
	newSession   SessionFactory
	newExtractor ExtractorFactory
	store        Store
	log          logger.Interface
}

// New creates an ingestor.
func New(
	cfg Config,
	newSession SessionFactory,
	newExtractor ExtractorFactory,
	articleStore Store,
	log logger.Interface,
) *Ingestor {
	if cfg.ArticleLimit <= 0 {
		cfg.ArticleLimit = DefaultArticleLimit
	}
	if cfg.PolitenessDelay <= 0 {
		cfg.PolitenessDelay = DefaultPolitenessDelay
	}
	if cfg.SelectionOrder == "" {
		cfg.SelectionOrder = OrderForward
	}
	if log == nil {
		log = logger.NewNoOp()
	}

	return &Ingestor{
		cfg:          cfg,
		newSession:   newSession,
		newExtractor: newExtractor,
		store:        articleStore,
		log:          log,
	}
}

// Run executes one ingestion run. Failure to open the session or load the
// listing page is fatal and returns an error alongside the empty result; all
// per-article failures are isolated and reported in the result. The session
// is closed on every exit path, including cancellation.
func (i *Ingestor) Run(ctx context.Context) (*Result, error) {
	result := NewResult()

	session := i.newSession()
	defer session.Close()

	if err := session.Open(ctx); err != nil {
		i.log.Error("Failed to open browser session", "error", err)
		return result, fmt.Errorf("ingestion run failed: %w", err)
	}

	page, err := session.Load(ctx, i.cfg.ListingURL)
	if err != nil {
		i.log.Error("Failed to load listing page", "url", i.cfg.ListingURL, "error", err)
		return result, fmt.Errorf("ingestion run failed: %w", err)
	}

	page = i.resolveOldestPage(ctx, session, page)

	links := i.selectLinks(page)
	i.log.Info("Candidate links selected",
		"listing", page.URL().String(), "count", len(links), "order", i.cfg.SelectionOrder)

	extractor := i.newExtractor(session)
	for idx, link := range links {
		if idx > 0 {
			if sleepErr := sleepContext(ctx, i.cfg.PolitenessDelay); sleepErr != nil {
				return result, fmt.Errorf("ingestion run canceled: %w", sleepErr)
			}
		}
		i.processArticle(ctx, extractor, link, result)
	}

	i.log.Info("Ingestion run finished",
		"scraped", result.ScrapedCount,
		"saved", result.SavedCount,
		"duplicates", result.DuplicateCount,
		"errors", result.ErrorCount)

	return result, nil
}

// ExtractSingle ingests one article URL on demand, without pagination. The
// existing record is returned when the URL is already stored.
func (i *Ingestor) ExtractSingle(ctx context.Context, url string) (*domain.Article, error) {
	session := i.newSession()
	defer session.Close()

	if err := session.Open(ctx); err != nil {
		return nil, fmt.Errorf("single extraction failed: %w", err)
	}

	candidate, err := i.newExtractor(session).Extract(ctx, url)
	if err != nil {
		return nil, err
	}

	if existing, findErr := i.store.FindByURL(ctx, candidate.URL); findErr == nil {
		return existing, nil
	}

	article, err := i.store.Create(ctx, candidate)
	if errors.Is(err, store.ErrDuplicateURL) {
		// Lost a race with a concurrent run; the row exists now.
		return i.store.FindByURL(ctx, candidate.URL)
	}
	if err != nil {
		return nil, err
	}

	return article, nil
}

// resolveOldestPage navigates to the last listing page when one is
// discoverable. Discovery and navigation failures fall back to the current
// page; pagination is best-effort, never fatal.
func (i *Ingestor) resolveOldestPage(ctx context.Context, session Session, page *render.Page) *render.Page {
	lastURL, ok := scrape.ResolveLastPage(page)
	if !ok || lastURL == page.URL().String() {
		i.log.Debug("Treating current listing page as last", "url", page.URL().String())
		return page
	}

	lastPage, err := session.Load(ctx, lastURL)
	if err != nil {
		i.log.Warn("Failed to load last listing page, using current page",
			"url", lastURL, "error", err)
		return page
	}

	i.log.Debug("Resolved last listing page", "url", lastURL)
	return lastPage
}

// selectLinks orders the discovered links per configuration and takes the
// first ArticleLimit of them.
func (i *Ingestor) selectLinks(page *render.Page) []string {
	links := scrape.ExtractLinks(page)

	if i.cfg.SelectionOrder == OrderReverse {
		for left, right := 0, len(links)-1; left < right; left, right = left+1, right-1 {
			links[left], links[right] = links[right], links[left]
		}
	}

	if len(links) > i.cfg.ArticleLimit {
		links = links[:i.cfg.ArticleLimit]
	}
	return links
}

// processArticle extracts and persists one URL, recording exactly one of
// saved, duplicate, or error on the result.
func (i *Ingestor) processArticle(ctx context.Context, extractor Extractor, url string, result *Result) {
	result.ScrapedCount++

	candidate, err := extractor.Extract(ctx, url)
	if err != nil {
		i.log.Warn("Article extraction yielded no result", "url", url, "error", err)
		result.addError(url, "", err)
		return
	}

	if _, findErr := i.store.FindByURL(ctx, candidate.URL); findErr == nil {
		i.log.Debug("Article already exists", "url", candidate.URL)
		result.addDuplicate()
		return
	} else if !errors.Is(findErr, store.ErrNotFound) {
		i.log.Error("Store lookup failed", "url", candidate.URL, "error", findErr)
		result.addError(candidate.URL, candidate.Title, findErr)
		return
	}

	article, err := i.store.Create(ctx, candidate)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateURL) {
			i.log.Debug("Article created concurrently elsewhere", "url", candidate.URL)
			result.addDuplicate()
			return
		}
		i.log.Error("Failed to persist article", "url", candidate.URL, "error", err)
		result.addError(candidate.URL, candidate.Title, err)
		return
	}

	i.log.Info("Article saved", "url", article.URL, "title", article.Title)
	result.addSaved(article)
}

// sleepContext pauses for d or until ctx is canceled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
