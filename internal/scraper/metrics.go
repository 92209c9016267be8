package scraper

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PagesScraped tracks the number of pages successfully extracted and written.
	PagesScraped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pageharvest_pages_scraped_total",
		Help: "The total number of pages successfully scraped and written.",
	})
	// SkipsTotal tracks items skipped before or during fetch, by reason.
	SkipsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pageharvest_skips_total",
		Help: "The total number of work items skipped, labeled by reason.",
	}, []string{"reason"})
	// FetchRetries tracks re-attempts after a retryable fetch failure.
	FetchRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pageharvest_fetch_retries_total",
		Help: "The total number of fetch retries.",
	})
	// FetchErrors tracks fetches that failed terminally after retries.
	FetchErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pageharvest_fetch_errors_total",
		Help: "The total number of fetches that exhausted their attempts.",
	})
)

// Skip reasons used with SkipsTotal.
const (
	SkipReasonRobots     = "robots"
	SkipReasonBadURL     = "bad_url"
	SkipReasonFetchError = "fetch_failed"
)
