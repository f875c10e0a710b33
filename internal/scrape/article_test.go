package scrape_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"blogharvest/internal/render"
	"blogharvest/internal/scrape"
)

const articleURL = "https://example.com/blog/go-profiling"

// articleBody is long enough to clear the default content quality gate.
const articleBody = `Profiling a Go service starts with the builtin pprof endpoints.
Collect a thirty second CPU profile under production load, then read the flame
graph from the widest frame down. Allocation profiles follow the same workflow
and usually point at encoding hot spots before anything else.`

const fullArticleHTML = `<!DOCTYPE html>
<html>
<head>
  <title>Go Profiling | Example Blog</title>
  <meta property="article:published_time" content="2024-03-09T10:30:00Z">
</head>
<body>
  <nav>Home | Archive</nav>
  <article>
    <h1>Profiling Go Services</h1>
    <div class="post-content">
      <p>` + articleBody + `</p>
      <div class="social-share">Share this</div>
    </div>
  </article>
  <footer>Copyright</footer>
</body>
</html>`

// fakeLoader serves canned HTML per URL without a browser.
type fakeLoader struct {
	pages map[string]string
	err   error
}

func (f *fakeLoader) Load(_ context.Context, url string) (*render.Page, error) {
	if f.err != nil {
		return nil, f.err
	}
	html, ok := f.pages[url]
	if !ok {
		return nil, errors.New("no such page")
	}
	return render.NewPage(html, url)
}

func newExtractor(t *testing.T, loader render.Loader, cfg scrape.ExtractorConfig) *scrape.ArticleExtractor {
	t.Helper()

	return scrape.NewArticleExtractor(
		loader, scrape.NewCleaner(), scrape.NewTagClassifier(nil), cfg, nil)
}

func TestExtract_FullArticle(t *testing.T) {
	t.Parallel()

	loader := &fakeLoader{pages: map[string]string{articleURL: fullArticleHTML}}
	ext := newExtractor(t, loader, scrape.ExtractorConfig{})

	candidate, err := ext.Extract(context.Background(), articleURL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if candidate.Title != "Profiling Go Services" {
		t.Fatalf("unexpected title %q", candidate.Title)
	}
	if candidate.URL != articleURL {
		t.Fatalf("unexpected URL %q", candidate.URL)
	}
	if !strings.Contains(candidate.Content, "pprof endpoints") {
		t.Fatalf("content lost article text:\n%s", candidate.Content)
	}
	if strings.Contains(candidate.Content, "Share this") {
		t.Fatalf("content kept share chrome:\n%s", candidate.Content)
	}

	want := time.Date(2024, 3, 9, 10, 30, 0, 0, time.UTC)
	if candidate.PublishedAt == nil || !candidate.PublishedAt.Equal(want) {
		t.Fatalf("expected publish date %v, got %v", want, candidate.PublishedAt)
	}
}

func TestExtract_TitleFallsBackToMetadata(t *testing.T) {
	t.Parallel()

	html := `<html><head><meta property="og:title" content="Fallback Title"></head>
<body><article><p>` + articleBody + `</p></article></body></html>`
	loader := &fakeLoader{pages: map[string]string{articleURL: html}}
	ext := newExtractor(t, loader, scrape.ExtractorConfig{})

	candidate, err := ext.Extract(context.Background(), articleURL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if candidate.Title != "Fallback Title" {
		t.Fatalf("unexpected title %q", candidate.Title)
	}
}

func TestExtract_NoTitle(t *testing.T) {
	t.Parallel()

	html := `<html><body><article><p>` + articleBody + `</p></article></body></html>`
	loader := &fakeLoader{pages: map[string]string{articleURL: html}}
	ext := newExtractor(t, loader, scrape.ExtractorConfig{})

	_, err := ext.Extract(context.Background(), articleURL)
	if !errors.Is(err, scrape.ErrNoResult) {
		t.Fatalf("expected ErrNoResult, got %v", err)
	}
}

func TestExtract_ContentTooShort(t *testing.T) {
	t.Parallel()

	html := `<html><body><h1>Untitled Draft</h1><article><p>soon…</p></article></body></html>`
	loader := &fakeLoader{pages: map[string]string{articleURL: html}}
	ext := newExtractor(t, loader, scrape.ExtractorConfig{})

	_, err := ext.Extract(context.Background(), articleURL)
	if !errors.Is(err, scrape.ErrNoResult) {
		t.Fatalf("expected ErrNoResult, got %v", err)
	}
}

func TestExtract_LoadFailure(t *testing.T) {
	t.Parallel()

	loader := &fakeLoader{err: errors.New("navigation timed out")}
	ext := newExtractor(t, loader, scrape.ExtractorConfig{})

	_, err := ext.Extract(context.Background(), articleURL)
	if !errors.Is(err, scrape.ErrNoResult) {
		t.Fatalf("expected ErrNoResult, got %v", err)
	}
}

func TestExtract_TruncatesTitle(t *testing.T) {
	t.Parallel()

	longTitle := strings.Repeat("é", 40) // 80 bytes of two-byte runes
	html := `<html><body><h1>` + longTitle + `</h1><article><p>` + articleBody +
		`</p></article></body></html>`
	loader := &fakeLoader{pages: map[string]string{articleURL: html}}
	ext := newExtractor(t, loader, scrape.ExtractorConfig{MaxTitleLength: 25})

	candidate, err := ext.Extract(context.Background(), articleURL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(candidate.Title) > 25 {
		t.Fatalf("title not truncated: %d bytes", len(candidate.Title))
	}
	// The cut must land on a rune boundary, never mid-sequence.
	if !strings.HasSuffix(candidate.Title, "é") {
		t.Fatalf("title truncated mid-rune: %q", candidate.Title)
	}
	if len(candidate.Title) != 24 {
		t.Fatalf("expected 24 bytes after boundary adjustment, got %d", len(candidate.Title))
	}
}

func TestExtract_TagsFromTitleAndContent(t *testing.T) {
	t.Parallel()

	loader := &fakeLoader{pages: map[string]string{articleURL: fullArticleHTML}}
	ext := newExtractor(t, loader, scrape.ExtractorConfig{})

	candidate, err := ext.Extract(context.Background(), articleURL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Only vocabulary terms actually present in the text may appear.
	for _, tag := range candidate.Tags {
		haystack := strings.ToLower(candidate.Title + " " + candidate.Content)
		if !strings.Contains(haystack, tag) {
			t.Fatalf("tag %q not present in article text", tag)
		}
	}
}
