package scrape_test

import (
	"strings"
	"testing"

	"blogharvest/internal/scrape"
)

// clutteredHTML carries article text surrounded by every category of
// non-content markup the cleaner is expected to strip.
const clutteredHTML = `<div>
  <script>var tracking = true;</script>
  <style>.post { color: red; }</style>
  <nav>Home | About | Archive</nav>
  <header>Site Header</header>
  <div class="sidebar">Recent posts</div>
  <p>First paragraph of the article.</p>
  <div class="ad">Buy things</div>
  <div class="promo-banner-wide">Subscribe now</div>
  <p>Second paragraph of    the article.</p>
  <div class="comments">Great post!</div>
  <footer>Copyright</footer>
</div>`

func TestClean_StripsNonContent(t *testing.T) {
	t.Parallel()

	cleaner := scrape.NewCleaner()
	got := cleaner.Clean(clutteredHTML)

	for _, removed := range []string{
		"tracking", "color: red", "Home | About", "Site Header",
		"Recent posts", "Buy things", "Subscribe now", "Great post", "Copyright",
	} {
		if strings.Contains(got, removed) {
			t.Fatalf("cleaned text still contains %q:\n%s", removed, got)
		}
	}

	for _, kept := range []string{
		"First paragraph of the article.",
		"Second paragraph of the article.",
	} {
		if !strings.Contains(got, kept) {
			t.Fatalf("cleaned text lost %q:\n%s", kept, got)
		}
	}
}

func TestClean_CollapsesWhitespace(t *testing.T) {
	t.Parallel()

	cleaner := scrape.NewCleaner()

	got := cleaner.Clean("<p>several   spaced\t\twords</p>")
	if got != "several spaced words" {
		t.Fatalf("expected collapsed spaces, got %q", got)
	}

	got = cleaner.Clean("<p>one</p>\n\n\n\n<p>two</p>")
	if strings.Contains(got, "\n\n\n") {
		t.Fatalf("expected at most one blank line, got %q", got)
	}
	if !strings.HasSuffix(got, "two") {
		t.Fatalf("expected no trailing blank lines, got %q", got)
	}
}

func TestClean_Idempotent(t *testing.T) {
	t.Parallel()

	cleaner := scrape.NewCleaner()

	inputs := []string{
		clutteredHTML,
		"<p>plain   text with\n\n\nblank lines</p>",
		"already clean text",
		"",
		// Entity-encoded markup in article text must survive repeated
		// cleaning instead of decoding into live elements.
		"<p>Use &lt;script&gt;alert(1)&lt;/script&gt; carefully in examples.</p>",
		"&lt;b&gt;bold&lt;/b&gt;",
		"&amp;lt;",
		"fish &amp; chips",
	}

	for _, input := range inputs {
		once := cleaner.Clean(input)
		twice := cleaner.Clean(once)
		if once != twice {
			t.Fatalf("Clean is not idempotent for %q:\nonce:  %q\ntwice: %q", input, once, twice)
		}
	}
}

func TestClean_PreservesEncodedMarkup(t *testing.T) {
	t.Parallel()

	cleaner := scrape.NewCleaner()

	got := cleaner.Clean("<p>Use &lt;script&gt;alert(1)&lt;/script&gt; carefully in examples.</p>")
	want := "Use &lt;script&gt;alert(1)&lt;/script&gt; carefully in examples."
	if got != want {
		t.Fatalf("Clean = %q, want %q", got, want)
	}

	// The encoded sample is text, not an element; a second pass must not
	// treat it as one and strip it.
	if again := cleaner.Clean(got); again != got {
		t.Fatalf("Clean deleted encoded markup on re-clean:\nonce:  %q\ntwice: %q", got, again)
	}
}

func TestClean_EmptyInput(t *testing.T) {
	t.Parallel()

	cleaner := scrape.NewCleaner()
	if got := cleaner.Clean(""); got != "" {
		t.Fatalf("expected empty output for empty input, got %q", got)
	}
}
