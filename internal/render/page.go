package render

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Page is a rendered DOM snapshot of a single URL. DOM reads go through
// goquery; all URL resolution is relative to the page's final URL.
type Page struct {
	doc *goquery.Document
	url *url.URL
}

// NewPage parses rendered HTML into a Page. pageURL is the final URL after
// redirects and becomes the base for resolving relative hrefs.
func NewPage(html, pageURL string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse rendered HTML: %w", err)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL %q: %w", pageURL, err)
	}

	return &Page{doc: doc, url: base}, nil
}

// Find returns the selection matching the given CSS selector.
func (p *Page) Find(selector string) *goquery.Selection {
	return p.doc.Find(selector)
}

// Selection returns the root selection of the document.
func (p *Page) Selection() *goquery.Selection {
	return p.doc.Selection
}

// URL returns the page's final URL.
func (p *Page) URL() *url.URL {
	return p.url
}

// Resolve resolves href against the page URL and returns an absolute URL.
// Returns empty string for unusable hrefs (empty, fragments, javascript:).
func (p *Page) Resolve(href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
		return ""
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := p.url.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	resolved.Fragment = ""

	return resolved.String()
}
