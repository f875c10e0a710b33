package scrape

import "errors"

// ErrNoResult is returned when extraction found nothing usable for a URL:
// a selector cascade came up empty or the content failed a quality gate.
// It is never fatal to a run.
var ErrNoResult = errors.New("no extractable article content")
