package ingest

import "blogharvest/internal/domain"

// ItemError records one isolated per-article failure.
type ItemError struct {
	// URL of the article that failed.
	URL string `json:"url"`
	// Title when extraction got far enough to produce one.
	Title string `json:"title,omitempty"`
	// Message is the underlying cause.
	Message string `json:"message"`
}

// Result is the aggregate outcome of one ingestion run. Counts always
// satisfy ScrapedCount == SavedCount + DuplicateCount + ErrorCount.
type Result struct {
	// ScrapedCount is the number of article URLs attempted.
	ScrapedCount int `json:"scrapedCount"`
	// SavedCount is the number of new articles persisted.
	SavedCount int `json:"savedCount"`
	// DuplicateCount is the number of URLs already present in the store.
	DuplicateCount int `json:"duplicateCount"`
	// ErrorCount is the number of isolated per-article failures.
	ErrorCount int `json:"errorCount"`
	// Articles holds the newly saved records.
	Articles []*domain.Article `json:"articles"`
	// Errors holds per-article failure detail.
	Errors []ItemError `json:"errors"`
}

// NewResult creates an empty result with non-nil slices for serialization.
func NewResult() *Result {
	return &Result{
		Articles: []*domain.Article{},
		Errors:   []ItemError{},
	}
}

// addSaved records a newly persisted article.
func (r *Result) addSaved(article *domain.Article) {
	r.SavedCount++
	r.Articles = append(r.Articles, article)
}

// addDuplicate records a URL that already existed in the store.
func (r *Result) addDuplicate() {
	r.DuplicateCount++
}

// addError records an isolated per-article failure.
func (r *Result) addError(url, title string, err error) {
	r.ErrorCount++
	r.Errors = append(r.Errors, ItemError{URL: url, Title: title, Message: err.Error()})
}
