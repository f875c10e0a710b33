package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"blogharvest/internal/api"
	"blogharvest/internal/domain"
	"blogharvest/internal/ingest"
	"blogharvest/internal/logger"
	"blogharvest/internal/scrape"
)

// fakeRunner returns canned ingestion outcomes.
type fakeRunner struct {
	result     *ingest.Result
	runErr     error
	article    *domain.Article
	extractErr error
}

func (f *fakeRunner) Run(context.Context) (*ingest.Result, error) {
	return f.result, f.runErr
}

func (f *fakeRunner) ExtractSingle(context.Context, string) (*domain.Article, error) {
	return f.article, f.extractErr
}

// fakeReader serves a fixed article set.
type fakeReader struct {
	articles []*domain.Article
	err      error
}

func (f *fakeReader) List(_ context.Context, limit, offset int) ([]*domain.Article, error) {
	if f.err != nil {
		return nil, f.err
	}
	if offset >= len(f.articles) {
		return nil, nil
	}
	end := min(offset+limit, len(f.articles))
	return f.articles[offset:end], nil
}

func (f *fakeReader) Count(context.Context) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return len(f.articles), nil
}

func serve(t *testing.T, runner api.Runner, reader api.ArticleReader, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	router := api.SetupRouter(logger.NewNoOp(), runner, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func storedArticles(n int) []*domain.Article {
	articles := make([]*domain.Article, 0, n)
	for i := range n {
		articles = append(articles, &domain.Article{
			ID:    fmt.Sprintf("id-%d", i),
			Title: fmt.Sprintf("Post %d", i),
			URL:   fmt.Sprintf("https://example.com/blog/post-%d", i),
		})
	}
	return articles
}

func TestHealth(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := serve(t, &fakeRunner{}, &fakeReader{}, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestRunHarvest_Success(t *testing.T) {
	t.Parallel()

	result := ingest.NewResult()
	result.ScrapedCount = 5
	result.SavedCount = 4
	result.DuplicateCount = 1

	req := httptest.NewRequest(http.MethodPost, "/api/v1/harvest", nil)
	rec := serve(t, &fakeRunner{result: result}, &fakeReader{}, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var got ingest.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ScrapedCount != 5 || got.SavedCount != 4 || got.DuplicateCount != 1 {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestRunHarvest_FatalFailure(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{
		result: ingest.NewResult(),
		runErr: errors.New("browser launch failed"),
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/harvest", nil)
	rec := serve(t, runner, &fakeReader{}, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadGateway)
	}
}

func TestExtractSingle_BadRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "empty body", body: ""},
		{name: "missing url", body: `{}`},
		{name: "not a url", body: `{"url": "not a url"}`},
	}

	for i := range tests {
		test := &tests[i]
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(
				http.MethodPost, "/api/v1/articles/extract", strings.NewReader(test.body))
			req.Header.Set("Content-Type", "application/json")
			rec := serve(t, &fakeRunner{}, &fakeReader{}, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestExtractSingle_NoResult(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{
		extractErr: fmt.Errorf("%w: no content", scrape.ErrNoResult),
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/articles/extract",
		strings.NewReader(`{"url": "https://example.com/blog/empty"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(t, runner, &fakeReader{}, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
}

func TestExtractSingle_Success(t *testing.T) {
	t.Parallel()

	article := &domain.Article{ID: "id-1", URL: "https://example.com/blog/post-1"}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/articles/extract",
		strings.NewReader(`{"url": "https://example.com/blog/post-1"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(t, &fakeRunner{article: article}, &fakeReader{}, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var got domain.Article
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "id-1" {
		t.Fatalf("unexpected article: %+v", got)
	}
}

func TestListArticles_ClampsLimit(t *testing.T) {
	t.Parallel()

	reader := &fakeReader{articles: storedArticles(150)}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/articles?limit=9999", nil)
	rec := serve(t, &fakeRunner{}, reader, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var got struct {
		Articles []*domain.Article `json:"articles"`
		Limit    int               `json:"limit"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Limit != 20 {
		t.Fatalf("limit = %d, want default 20 after clamp", got.Limit)
	}
	if len(got.Articles) != 20 {
		t.Fatalf("got %d articles, want 20", len(got.Articles))
	}
}

func TestCountArticles(t *testing.T) {
	t.Parallel()

	reader := &fakeReader{articles: storedArticles(3)}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/articles/count", nil)
	rec := serve(t, &fakeRunner{}, reader, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var got struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Count != 3 {
		t.Fatalf("count = %d, want 3", got.Count)
	}
}

func TestCountArticles_StoreFailure(t *testing.T) {
	t.Parallel()

	reader := &fakeReader{err: errors.New("connection refused")}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/articles/count", nil)
	rec := serve(t, &fakeRunner{}, reader, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}
