package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/microcosm-cc/bluemonday"

	"blogharvest/internal/domain"
)

// articlesSchema bootstraps the articles relation. The unique constraint on
// url is the storage-layer safety net against duplicate writes from
// concurrent runs.
const articlesSchema = `
CREATE TABLE IF NOT EXISTS articles (
	id               UUID PRIMARY KEY,
	title            TEXT NOT NULL,
	content          TEXT NOT NULL,
	url              TEXT NOT NULL UNIQUE,
	scraped_date     TIMESTAMPTZ NOT NULL,
	enhanced_content TEXT,
	is_enhanced      BOOLEAN NOT NULL DEFAULT FALSE,
	word_count       INTEGER NOT NULL DEFAULT 0,
	reading_time     INTEGER NOT NULL DEFAULT 0,
	tags             TEXT[] NOT NULL DEFAULT '{}',
	created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const articleColumns = `id, title, content, url, scraped_date, enhanced_content,
	is_enhanced, word_count, reading_time, tags, created_at, updated_at`

// ArticleRepository handles database operations for articles.
type ArticleRepository struct {
	db       *sqlx.DB
	sanitize *bluemonday.Policy
}

// NewArticleRepository creates a new article repository.
func NewArticleRepository(db *sqlx.DB) *ArticleRepository {
	return &ArticleRepository{
		db:       db,
		sanitize: bluemonday.StrictPolicy(),
	}
}

// EnsureSchema creates the articles table if it does not exist.
func (r *ArticleRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, articlesSchema); err != nil {
		return fmt.Errorf("failed to ensure articles schema: %w", err)
	}
	return nil
}

// Create inserts a new article built from the candidate. Title and content
// are HTML-sanitized and the derived word count and reading time are computed
// before insertion. A unique constraint violation on the URL surfaces as
// ErrDuplicateURL; idempotence checks beyond that are the caller's job.
func (r *ArticleRepository) Create(ctx context.Context, c *domain.Candidate) (*domain.Article, error) {
	now := time.Now().UTC()
	article := &domain.Article{
		ID:          uuid.NewString(),
		Title:       r.sanitizeText(c.Title),
		Content:     r.sanitizeText(c.Content),
		URL:         c.URL,
		ScrapedDate: now,
		Tags:        pq.StringArray(domain.NormalizeTags(c.Tags)),
	}
	article.RecomputeDerived()

	query := `
		INSERT INTO articles (id, title, content, url, scraped_date, word_count, reading_time, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		article.ID,
		article.Title,
		article.Content,
		article.URL,
		article.ScrapedDate,
		article.WordCount,
		article.ReadingTime,
		article.Tags,
	).Scan(&article.CreatedAt, &article.UpdatedAt)

	if err != nil {
		if isDuplicateErr(err) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateURL, article.URL)
		}
		return nil, fmt.Errorf("failed to create article: %w", err)
	}

	return article, nil
}

// FindByURL retrieves an article by its source URL. Returns ErrNotFound when
// the URL has not been persisted.
func (r *ArticleRepository) FindByURL(ctx context.Context, url string) (*domain.Article, error) {
	var article domain.Article
	query := `SELECT ` + articleColumns + ` FROM articles WHERE url = $1`

	err := r.db.GetContext(ctx, &article, query, url)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, url)
		}
		return nil, fmt.Errorf("failed to find article by url: %w", err)
	}

	return &article, nil
}

// Count returns the total number of stored articles.
func (r *ArticleRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM articles`); err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}
	return count, nil
}

// List retrieves articles ordered by scrape time, newest first.
func (r *ArticleRepository) List(ctx context.Context, limit, offset int) ([]*domain.Article, error) {
	var articles []*domain.Article
	query := `SELECT ` + articleColumns + `
		FROM articles
		ORDER BY scraped_date DESC
		LIMIT $1 OFFSET $2`

	if err := r.db.SelectContext(ctx, &articles, query, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}

	if articles == nil {
		articles = []*domain.Article{}
	}
	return articles, nil
}

// sanitizeText strips any markup that survived extraction and decodes the
// entity escaping carried in from cleaning and sanitization, so stored text
// stays plain.
func (r *ArticleRepository) sanitizeText(s string) string {
	return strings.TrimSpace(html.UnescapeString(r.sanitize.Sanitize(s)))
}
