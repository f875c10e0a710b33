// Package common provides shared dependency wiring for command
// implementations.
package common

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"blogharvest/internal/config"
	"blogharvest/internal/ingest"
	"blogharvest/internal/logger"
	"blogharvest/internal/render"
	"blogharvest/internal/scrape"
	"blogharvest/internal/store"
)

// schemaTimeout bounds schema creation at startup.
const schemaTimeout = 10 * time.Second

// Deps holds the dependencies shared by all commands.
type Deps struct {
	Config   *config.Config
	Logger   logger.Interface
	DB       *sqlx.DB
	Articles *store.ArticleRepository
	Ingestor *ingest.Ingestor
}

// Build constructs the full dependency graph: configuration, logger,
// database connection, repository, and the ingestion pipeline.
func Build(cfgFile string, debug bool) (*Deps, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if debug {
		cfg.Log.Level = "debug"
		cfg.Log.Development = true
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := store.NewConnection(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	articles := store.NewArticleRepository(db)
	ctx, cancel := context.WithTimeout(context.Background(), schemaTimeout)
	defer cancel()
	if err := articles.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	return &Deps{
		Config:   cfg,
		Logger:   log,
		DB:       db,
		Articles: articles,
		Ingestor: NewIngestor(cfg, articles, log),
	}, nil
}

// NewIngestor wires the ingestion pipeline from configuration. Each run gets
// a fresh browser session and an extractor bound to it.
func NewIngestor(cfg *config.Config, articles *store.ArticleRepository, log logger.Interface) *ingest.Ingestor {
	sessionCfg := render.SessionConfig{
		NavigationTimeout: cfg.Harvest.NavigationTimeout,
		UserAgent:         cfg.Harvest.UserAgent,
		Headless:          cfg.Harvest.Headless,
	}
	extractorCfg := scrape.ExtractorConfig{
		MinContentLength: cfg.Harvest.MinContentLength,
		MaxTitleLength:   cfg.Harvest.MaxTitleLength,
	}

	cleaner := scrape.NewCleaner()
	classifier := scrape.NewTagClassifier(cfg.Harvest.TagVocabulary)

	newSession := func() ingest.Session {
		return render.NewSession(sessionCfg, log)
	}
	newExtractor := func(loader render.Loader) ingest.Extractor {
		return scrape.NewArticleExtractor(loader, cleaner, classifier, extractorCfg, log)
	}

	return ingest.New(ingest.Config{
		ListingURL:      cfg.Harvest.ListingURL,
		ArticleLimit:    cfg.Harvest.ArticleLimit,
		PolitenessDelay: cfg.Harvest.PolitenessDelay,
		SelectionOrder:  cfg.Harvest.SelectionOrder,
	}, newSession, newExtractor, articles, log)
}

// Close releases held resources.
func (d *Deps) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
