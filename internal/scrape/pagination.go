package scrape

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"blogharvest/internal/render"
)

// PaginationStrategy is one structural heuristic for locating the last
// listing page. It returns the href and true on success. Strategies are pure
// functions of the rendered page and are evaluated in order with early exit.
type PaginationStrategy struct {
	// Name identifies the strategy in logs.
	Name string
	// Resolve inspects the page and returns a raw href.
	Resolve func(p *render.Page) (string, bool)
}

// paginationStrategies is the ordered cascade for last-page discovery:
// an explicit "last" control, then the final item of a pagination control,
// then the link whose visible text is the highest page number.
var paginationStrategies = []PaginationStrategy{
	{
		Name: "explicit last control",
		Resolve: func(p *render.Page) (string, bool) {
			sel := p.Find("a.last, .pagination a.last, a[rel='last'], li.last a, .page-numbers.last")
			return firstHref(sel)
		},
	},
	{
		Name: "final pagination item",
		Resolve: func(p *render.Page) (string, bool) {
			containers := p.Find(".pagination, .pager, nav.page-navigation, ul.page-numbers")
			if containers.Length() == 0 {
				return "", false
			}
			links := containers.First().Find("a[href]")
			if links.Length() == 0 {
				return "", false
			}
			return links.Last().Attr("href")
		},
	},
	{
		Name: "highest numeric link",
		Resolve: func(p *render.Page) (string, bool) {
			var bestHref string
			bestPage := 0
			p.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
				n, err := strconv.Atoi(strings.TrimSpace(s.Text()))
				if err != nil || n <= bestPage {
					return
				}
				if href, ok := s.Attr("href"); ok {
					bestPage = n
					bestHref = href
				}
			})
			return bestHref, bestPage > 0
		},
	},
}

// ResolveLastPage determines the absolute URL of the listing page holding the
// oldest items. Returns ok=false when no heuristic yields a resolvable URL,
// meaning the current page should be treated as the last one. Discovery is
// best-effort and never fails the run.
func ResolveLastPage(p *render.Page) (string, bool) {
	for _, strategy := range paginationStrategies {
		href, ok := strategy.Resolve(p)
		if !ok {
			continue
		}
		if resolved := p.Resolve(href); resolved != "" {
			return resolved, true
		}
	}
	return "", false
}

// firstHref returns the href of the first element in the selection.
func firstHref(sel *goquery.Selection) (string, bool) {
	if sel.Length() == 0 {
		return "", false
	}
	return sel.First().Attr("href")
}
