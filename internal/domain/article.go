// Package domain provides domain models used across the application.
package domain

import (
	"strings"
	"time"

	"github.com/lib/pq"
)

// WordsPerMinute is the reading speed used to derive reading time.
const WordsPerMinute = 200

// Article represents a persisted article scraped from the source blog.
type Article struct {
	// Unique identifier assigned at creation
	ID string `db:"id" json:"id"`
	// Title of the article, truncated to the maximum persisted length
	Title string `db:"title" json:"title"`
	// Cleaned, sanitized body text
	Content string `db:"content" json:"content"`
	// Source URL, unique and immutable after creation
	URL string `db:"url" json:"url"`
	// When the article was scraped
	ScrapedDate time.Time `db:"scraped_date" json:"scraped_date"`
	// AI-enhanced content, unused by the ingestion core
	EnhancedContent *string `db:"enhanced_content" json:"enhanced_content,omitempty"`
	// Whether enhanced content has been generated
	IsEnhanced bool `db:"is_enhanced" json:"is_enhanced"`
	// Derived word count of Content
	WordCount int `db:"word_count" json:"word_count"`
	// Derived reading time in minutes
	ReadingTime int `db:"reading_time" json:"reading_time"`
	// Tags drawn from the fixed vocabulary
	Tags pq.StringArray `db:"tags" json:"tags"`
	// Record creation timestamp
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	// Record update timestamp
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Candidate holds an extracted article pending validation and storage.
// It is created and discarded within one extraction call.
type Candidate struct {
	// Title of the article
	Title string `json:"title"`
	// Cleaned body text
	Content string `json:"content"`
	// Absolute source URL
	URL string `json:"url"`
	// Tags drawn from the fixed vocabulary
	Tags []string `json:"tags,omitempty"`
	// Best-effort publish date hint; nil when the page exposes none
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// CountWords returns the number of whitespace-separated words in s.
func CountWords(s string) int {
	return len(strings.Fields(s))
}

// ReadingMinutes returns the reading time in minutes for the given word
// count, rounded up. A zero word count yields zero minutes.
func ReadingMinutes(wordCount int) int {
	if wordCount <= 0 {
		return 0
	}
	return (wordCount + WordsPerMinute - 1) / WordsPerMinute
}

// RecomputeDerived recalculates word count and reading time from Content.
// Must be called whenever Content changes.
func (a *Article) RecomputeDerived() {
	a.WordCount = CountWords(a.Content)
	a.ReadingTime = ReadingMinutes(a.WordCount)
}

// NormalizeTags removes empty items and duplicates while preserving order,
// and returns nil when nothing remains.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(tags))
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag != "" && !seen[tag] {
			seen[tag] = true
			cleaned = append(cleaned, tag)
		}
	}

	if len(cleaned) == 0 {
		return nil
	}
	return cleaned
}
