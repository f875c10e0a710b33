package scrape_test

import (
	"testing"

	"blogharvest/internal/render"
	"blogharvest/internal/scrape"
)

const baseListingURL = "https://example.com/blog"

func renderPage(t *testing.T, html string) *render.Page {
	t.Helper()

	page, err := render.NewPage(html, baseListingURL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return page
}

func TestResolveLastPage_ExplicitLastControl(t *testing.T) {
	t.Parallel()

	page := renderPage(t, `
<div class="pagination">
  <a href="/blog/page/2">2</a>
  <a class="last" href="/blog/page/12">Last</a>
</div>`)

	got, ok := scrape.ResolveLastPage(page)
	if !ok {
		t.Fatal("expected a last page")
	}
	if want := "https://example.com/blog/page/12"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestResolveLastPage_RelLast(t *testing.T) {
	t.Parallel()

	page := renderPage(t, `<nav><a rel="last" href="/blog/page/7">&raquo;</a></nav>`)

	got, ok := scrape.ResolveLastPage(page)
	if !ok {
		t.Fatal("expected a last page")
	}
	if want := "https://example.com/blog/page/7"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestResolveLastPage_FinalPaginationItem(t *testing.T) {
	t.Parallel()

	page := renderPage(t, `
<ul class="pagination">
  <li><a href="/blog/page/2">2</a></li>
  <li><a href="/blog/page/3">3</a></li>
  <li><a href="/blog/page/9">Next</a></li>
</ul>`)

	got, ok := scrape.ResolveLastPage(page)
	if !ok {
		t.Fatal("expected a last page")
	}
	if want := "https://example.com/blog/page/9"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestResolveLastPage_HighestNumericLink(t *testing.T) {
	t.Parallel()

	// No pagination container at all; numeric link text is the only signal.
	page := renderPage(t, `
<div>
  <a href="/blog/page/2"> 2 </a>
  <a href="/blog/page/14">14</a>
  <a href="/blog/page/3">3</a>
  <a href="/about">About</a>
</div>`)

	got, ok := scrape.ResolveLastPage(page)
	if !ok {
		t.Fatal("expected a last page")
	}
	if want := "https://example.com/blog/page/14"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestResolveLastPage_NoPagination(t *testing.T) {
	t.Parallel()

	page := renderPage(t, `
<article><a href="/blog/only-post">Only Post</a></article>
<a href="/about">About</a>`)

	if got, ok := scrape.ResolveLastPage(page); ok {
		t.Fatalf("expected no last page, got %q", got)
	}
}

func TestResolveLastPage_UnresolvableHref(t *testing.T) {
	t.Parallel()

	// The explicit control carries a useless href; discovery should fail
	// rather than return an empty URL.
	page := renderPage(t, `<a class="last" href="javascript:void(0)">Last</a>`)

	if got, ok := scrape.ResolveLastPage(page); ok {
		t.Fatalf("expected no last page, got %q", got)
	}
}
