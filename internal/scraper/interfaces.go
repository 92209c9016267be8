package scraper

import (
	"context"
	"time"
)

// Source resolves the initial work list for a run.
type Source interface {
	URLs(ctx context.Context) ([]WorkItem, error)
}

// RobotsPolicy answers whether a URL may be fetched by this agent.
type RobotsPolicy interface {
	Allowed(ctx context.Context, rawURL string) bool
}

// Fetcher performs a single HTTP GET with the given client identity.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, userAgent string) (Page, error)
}

// RetryPolicy decides whether and when a failed fetch is re-attempted.
type RetryPolicy interface {
	ShouldRetry(err error, attempt int) bool
	Backoff(attempt int) time.Duration
}

// Extractor pulls structured fields out of a fetched page body.
type Extractor interface {
	Extract(pageURL string, body []byte) (Record, error)
}

// RecordWriter appends extracted records to the tabular output.
type RecordWriter interface {
	Write(rec Record) error
	Close() error
}

// RecordStore mirrors records into an external database.
type RecordStore interface {
	SaveRecord(ctx context.Context, runID string, rec Record) error
}

// Archiver persists the raw body of a fetched page and returns its location.
type Archiver interface {
	Save(ctx context.Context, page Page) (string, error)
}
