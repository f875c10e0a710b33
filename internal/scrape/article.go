package scrape

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"blogharvest/internal/domain"
	"blogharvest/internal/logger"
	"blogharvest/internal/render"
)

const (
	// DefaultMinContentLength is the quality gate: cleaned content shorter
	// than this is rejected as a stub or placeholder page.
	DefaultMinContentLength = 100
	// DefaultMaxTitleLength is the maximum persisted title length.
	DefaultMaxTitleLength = 500
)

// textStrategy is one structural lookup producing a text value from a page.
type textStrategy struct {
	name    string
	extract func(p *render.Page) (string, bool)
}

// selectorText builds a strategy returning the trimmed text of the first
// element matching selector.
func selectorText(name, selector string) textStrategy {
	return textStrategy{
		name: name,
		extract: func(p *render.Page) (string, bool) {
			sel := p.Find(selector)
			if sel.Length() == 0 {
				return "", false
			}
			text := strings.TrimSpace(sel.First().Text())
			return text, text != ""
		},
	}
}

// titleStrategies is the ordered cascade for article titles: the main
// heading, then structural title classes, then page-title metadata.
var titleStrategies = []textStrategy{
	selectorText("main heading", "h1"),
	selectorText("structural title class", ".post-title, .entry-title, .article-title, header h2"),
	{
		name: "page title metadata",
		extract: func(p *render.Page) (string, bool) {
			if content, ok := p.Find("meta[property='og:title']").Attr("content"); ok {
				if title := strings.TrimSpace(content); title != "" {
					return title, true
				}
			}
			title := strings.TrimSpace(p.Find("title").First().Text())
			return title, title != ""
		},
	},
}

// contentStrategies is the ordered cascade over known content-container
// patterns. Each returns the container's inner HTML so the cleaner can strip
// embedded chrome before text extraction.
var contentStrategies = []textStrategy{
	selectorHTML("post content class", ".post-content, .entry-content, .article-content, .post-body"),
	selectorHTML("article element", "article"),
	selectorHTML("main content region", "main, [role='main'], .content, #content"),
}

// selectorHTML builds a strategy returning the inner HTML of the first
// element matching selector.
func selectorHTML(name, selector string) textStrategy {
	return textStrategy{
		name: name,
		extract: func(p *render.Page) (string, bool) {
			sel := p.Find(selector)
			if sel.Length() == 0 {
				return "", false
			}
			html, err := sel.First().Html()
			if err != nil {
				return "", false
			}
			html = strings.TrimSpace(html)
			return html, html != ""
		},
	}
}

// dateStrategies is the ordered cascade for the optional publish-date hint.
var dateStrategies = []textStrategy{
	{
		name: "time datetime attribute",
		extract: func(p *render.Page) (string, bool) {
			value, ok := p.Find("time[datetime]").First().Attr("datetime")
			return strings.TrimSpace(value), ok
		},
	},
	{
		name: "published_time metadata",
		extract: func(p *render.Page) (string, bool) {
			value, ok := p.Find("meta[property='article:published_time']").Attr("content")
			return strings.TrimSpace(value), ok
		},
	},
	selectorText("structural date class", ".post-date, .published, .date, .entry-date"),
}

// dateFormats are tried in order when parsing a publish-date hint.
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"02 Jan 2006",
}

// ExtractorConfig configures the article extractor.
type ExtractorConfig struct {
	// MinContentLength is the quality gate on cleaned content.
	MinContentLength int
	// MaxTitleLength truncates titles before persistence.
	MaxTitleLength int
}

// ArticleExtractor turns one article URL into a candidate record. Every step
// is best-effort: any failure yields ErrNoResult for that URL, never a hard
// error that could abort a batch.
type ArticleExtractor struct {
	loader     render.Loader
	cleaner    *Cleaner
	classifier *TagClassifier
	cfg        ExtractorConfig
	log        logger.Interface
}

// NewArticleExtractor creates an article extractor over the given loader.
func NewArticleExtractor(
	loader render.Loader,
	cleaner *Cleaner,
	classifier *TagClassifier,
	cfg ExtractorConfig,
	log logger.Interface,
) *ArticleExtractor {
	if cfg.MinContentLength <= 0 {
		cfg.MinContentLength = DefaultMinContentLength
	}
	if cfg.MaxTitleLength <= 0 {
		cfg.MaxTitleLength = DefaultMaxTitleLength
	}
	if log == nil {
		log = logger.NewNoOp()
	}

	return &ArticleExtractor{
		loader:     loader,
		cleaner:    cleaner,
		classifier: classifier,
		cfg:        cfg,
		log:        log,
	}
}

// Extract loads url and produces a candidate, or an error wrapping
// ErrNoResult when the page cannot be turned into a valid article.
func (e *ArticleExtractor) Extract(ctx context.Context, url string) (*domain.Candidate, error) {
	page, err := e.loader.Load(ctx, url)
	if err != nil {
		e.log.Warn("Article page load failed", "url", url, "error", err)
		return nil, fmt.Errorf("%w: load failed: %v", ErrNoResult, err)
	}

	title, ok := firstMatch(page, titleStrategies)
	if !ok {
		e.log.Debug("No title found", "url", url)
		return nil, fmt.Errorf("%w: no title", ErrNoResult)
	}

	rawContent, ok := firstMatch(page, contentStrategies)
	if !ok {
		e.log.Debug("No content container found", "url", url)
		return nil, fmt.Errorf("%w: no content", ErrNoResult)
	}

	content := e.cleaner.Clean(rawContent)
	if len(content) < e.cfg.MinContentLength {
		e.log.Debug("Content below quality gate",
			"url", url, "length", len(content), "min", e.cfg.MinContentLength)
		return nil, fmt.Errorf("%w: content too short (%d chars)", ErrNoResult, len(content))
	}

	candidate := &domain.Candidate{
		Title:       truncate(title, e.cfg.MaxTitleLength),
		Content:     content,
		URL:         page.URL().String(),
		Tags:        e.classifier.Classify(title, content),
		PublishedAt: extractPublishedAt(page),
	}

	e.log.Debug("Article extracted",
		"url", url, "title", candidate.Title, "content_chars", len(content), "tags", candidate.Tags)

	return candidate, nil
}

// firstMatch evaluates strategies in order and returns the first non-empty
// result.
func firstMatch(p *render.Page, strategies []textStrategy) (string, bool) {
	for _, strategy := range strategies {
		if value, ok := strategy.extract(p); ok && value != "" {
			return value, true
		}
	}
	return "", false
}

// extractPublishedAt returns a best-effort publish-date hint. Absence or an
// unparseable value is not an error.
func extractPublishedAt(p *render.Page) *time.Time {
	for _, strategy := range dateStrategies {
		value, ok := strategy.extract(p)
		if !ok || value == "" {
			continue
		}
		if t, ok := parseDate(value); ok {
			return &t
		}
	}
	return nil
}

// parseDate tries the known date formats in order.
func parseDate(value string) (time.Time, bool) {
	for _, format := range dateFormats {
		if t, err := time.Parse(format, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// truncate shortens s to at most max bytes without splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
