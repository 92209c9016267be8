package scraper

import (
	"fmt"
	"net/http"
)

// Origin records where a work item came from.
type Origin string

// Work item origins.
const (
	OriginList    Origin = "list"
	OriginFile    Origin = "file"
	OriginSitemap Origin = "sitemap"
)

// ItemState is the lifecycle state of a work item within a run.
type ItemState string

// Item states.
const (
	ItemPending ItemState = "pending"
	ItemDone    ItemState = "done"
	ItemSkipped ItemState = "skipped"
	ItemFailed  ItemState = "failed"
)

// WorkItem is one URL scheduled for processing. Items are created by a
// Source at the start of a run and consumed exactly once by the Engine.
type WorkItem struct {
	URL    string
	Origin Origin
	State  ItemState
}

// Page is the raw result of a single successful fetch.
type Page struct {
	URL        string
	FinalURL   string
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Record holds the fields extracted from one page. Once written to the
// output it is never mutated.
type Record struct {
	URL      string
	Title    string
	Headings []string
	Links    []string
	Images   []string
}

// Summary reports the outcome of a completed run.
type Summary struct {
	RunID     string
	Total     int
	Processed int
	Skipped   int
	Failed    int
}

// HTTPStatusError reports a non-2xx response from the target server.
type HTTPStatusError struct {
	StatusCode int
	URL        string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d fetching %s", e.StatusCode, e.URL)
}

// Retryable reports whether the status is worth another attempt.
// Rate limiting and server errors are transient; other client errors
// are terminal.
func (e *HTTPStatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}
