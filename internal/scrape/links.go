package scrape

import (
	"github.com/PuerkitoBio/goquery"

	"blogharvest/internal/render"
)

// LinkStrategy is one structural selector for discovering article links on a
// listing page. The first strategy producing at least one match is used
// exclusively; strategies are never merged, so navigation chrome from a
// weaker selector cannot leak into a stronger one's results.
type LinkStrategy struct {
	// Name identifies the strategy in logs.
	Name string
	// Selector matches anchor elements holding article hrefs.
	Selector string
}

// linkStrategies is the ordered cascade for article link discovery.
var linkStrategies = []LinkStrategy{
	{Name: "article container", Selector: "article a[href], .post a[href], .blog-post a[href]"},
	{Name: "post title heading", Selector: "h1.entry-title a[href], h2.entry-title a[href], " +
		"h2.post-title a[href], h3.post-title a[href], .article-title a[href]"},
	{Name: "article path fragment", Selector: "a[href*='/blog/'], a[href*='/post/'], " +
		"a[href*='/posts/'], a[href*='/article']"},
}

// ExtractLinks enumerates candidate article URLs on a rendered listing page,
// in first-seen order with duplicates removed and hrefs resolved to absolute
// URLs. Returns an empty slice, never an error, when no strategy matches.
func ExtractLinks(p *render.Page) []string {
	for _, strategy := range linkStrategies {
		sel := p.Find(strategy.Selector)
		if sel.Length() == 0 {
			continue
		}
		if links := collectLinks(p, sel); len(links) > 0 {
			return links
		}
	}
	return nil
}

// collectLinks resolves and deduplicates hrefs preserving first-seen order.
// The page's own URL is skipped; a listing often links to itself.
func collectLinks(p *render.Page, sel *goquery.Selection) []string {
	seen := make(map[string]bool, sel.Length())
	links := make([]string, 0, sel.Length())

	sel.Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		resolved := p.Resolve(href)
		if resolved == "" || resolved == p.URL().String() || seen[resolved] {
			return
		}
		seen[resolved] = true
		links = append(links, resolved)
	})

	return links
}
