package scrape

import "strings"

// DefaultTagVocabulary is the fixed tag vocabulary matched against article
// text. Substring matching is deliberately coarse; it is a low-precision
// placeholder, not a classifier to perfect.
var DefaultTagVocabulary = []string{
	"golang",
	"javascript",
	"typescript",
	"python",
	"rust",
	"react",
	"docker",
	"kubernetes",
	"database",
	"postgresql",
	"security",
	"cloud",
	"devops",
	"testing",
	"performance",
	"api",
	"microservices",
	"architecture",
}

// TagClassifier assigns tags from a fixed vocabulary by substring presence.
type TagClassifier struct {
	vocabulary []string
}

// NewTagClassifier creates a classifier over the given vocabulary. An empty
// vocabulary falls back to DefaultTagVocabulary.
func NewTagClassifier(vocabulary []string) *TagClassifier {
	if len(vocabulary) == 0 {
		vocabulary = DefaultTagVocabulary
	}

	// Deduplicate while preserving vocabulary order so classification output
	// is deterministic.
	seen := make(map[string]bool, len(vocabulary))
	vocab := make([]string, 0, len(vocabulary))
	for _, term := range vocabulary {
		term = strings.ToLower(strings.TrimSpace(term))
		if term != "" && !seen[term] {
			seen[term] = true
			vocab = append(vocab, term)
		}
	}

	return &TagClassifier{vocabulary: vocab}
}

// Classify returns every vocabulary term appearing as a substring of the
// lower-cased title and content. The result is duplicate-free and ordered by
// vocabulary position, so identical input always yields an identical set.
func (c *TagClassifier) Classify(title, content string) []string {
	haystack := strings.ToLower(title + " " + content)

	var tags []string
	for _, term := range c.vocabulary {
		if strings.Contains(haystack, term) {
			tags = append(tags, term)
		}
	}

	return tags
}
