// Package scrape turns rendered pages into structured article data: pagination
// resolution, link discovery, content extraction and cleaning, and tag
// classification. Extraction is best-effort by design; callers receive
// ErrNoResult instead of malformed output.
package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// nonContentSelectors matches markup that never carries article text.
// Matched elements are removed before text extraction.
var nonContentSelectors = []string{
	"script",
	"style",
	"noscript",
	"iframe",
	"form",
	"nav",
	"header",
	"footer",
	"aside",
	".navigation",
	".navbar",
	".menu",
	".sidebar",
	".comments",
	".comment-section",
	".social-share",
	".share-buttons",
	".related-posts",
	".newsletter-signup",
	".ad",
	".ads",
	".advertisement",
	"[class*='banner']",
}

// Cleaner strips non-content markup from raw HTML and normalizes the
// remaining text. Clean is idempotent.
type Cleaner struct{}

// NewCleaner creates a new content cleaner.
func NewCleaner() *Cleaner {
	return &Cleaner{}
}

// Clean converts raw HTML into article text: removes script, style,
// navigation and ad-like elements, collapses runs of whitespace within lines,
// and collapses multiple blank lines into at most one. The returned text is
// entity-escaped, so cleaning it again yields it unchanged.
func (c *Cleaner) Clean(rawHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		// Unparseable input degrades to whitespace normalization only.
		return escapeMarkup(normalizeWhitespace(rawHTML))
	}

	for _, selector := range nonContentSelectors {
		doc.Find(selector).Remove()
	}

	return escapeMarkup(normalizeWhitespace(doc.Text()))
}

// markupEscaper escapes the characters the HTML parser treats as markup.
var markupEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// escapeMarkup re-escapes extracted text. Parsing decodes entities, so text
// such as an entity-encoded code sample would otherwise re-parse as live
// markup and be removed on a second pass; escaped output re-parses as the
// same text.
func escapeMarkup(text string) string {
	return markupEscaper.Replace(text)
}

// normalizeWhitespace collapses horizontal whitespace within each line and
// limits consecutive blank lines to one.
func normalizeWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := false

	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}

	// Drop a trailing blank line left by the collapse pass.
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}

	return strings.Join(out, "\n")
}
