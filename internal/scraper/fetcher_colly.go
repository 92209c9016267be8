package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// CollyFetcher implements the Fetcher interface using the Colly collector.
type CollyFetcher struct {
	baseCollector *colly.Collector
	transport     http.RoundTripper
	logger        *zap.Logger
}

// NewCollyFetcher constructs a configured Colly-based Fetcher.
func NewCollyFetcher(cfg Config, logger *zap.Logger) (*CollyFetcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	base := colly.NewCollector()
	// Robots enforcement happens in the policy layer before a fetch is
	// ever attempted; letting Colly re-check would fetch robots.txt a
	// second time per origin.
	base.IgnoreRobotsTxt = true
	// Retries re-request the same URL through cloned collectors that
	// share the visited store.
	base.AllowURLRevisit = true
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          32,
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: cfg.RequestTimeout,
		ForceAttemptHTTP2:     true,
	}
	base.WithTransport(transport)
	base.SetRequestTimeout(cfg.RequestTimeout)

	return &CollyFetcher{
		baseCollector: base,
		transport:     transport,
		logger:        logger,
	}, nil
}

// Fetch retrieves a page via the configured Colly collector, sending
// userAgent as the request identity. Exactly one attempt is made; the
// retry loop lives in the caller.
func (f *CollyFetcher) Fetch(ctx context.Context, rawURL string, userAgent string) (Page, error) {
	collector := f.baseCollector.Clone()
	collector.UserAgent = userAgent
	// Bind the caller's context to the outgoing request so cancellation
	// interrupts an in-flight fetch instead of waiting out the timeout.
	collector.WithTransport(&contextTransport{ctx: ctx, base: f.transport})

	resultCh := make(chan fetchResult, 1)
	var once sync.Once
	send := func(res fetchResult) {
		once.Do(func() {
			resultCh <- res
		})
	}

	collector.OnResponse(func(r *colly.Response) {
		headers := http.Header{}
		if r.Headers != nil {
			for k, v := range *r.Headers {
				cp := make([]string, len(v))
				copy(cp, v)
				headers[k] = cp
			}
		}
		page := Page{
			URL:        rawURL,
			FinalURL:   r.Request.URL.String(),
			StatusCode: r.StatusCode,
			Headers:    headers,
			Body:       append([]byte{}, r.Body...),
		}
		send(fetchResult{page: page})
	})

	collector.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode != 0 {
			err = &HTTPStatusError{StatusCode: r.StatusCode, URL: rawURL}
		} else if err == nil {
			err = errors.New("unknown colly error")
		}
		send(fetchResult{err: err})
	})

	// Visit reports errors that already passed through OnError; the
	// callback result carries the richer status error, so it wins.
	if err := collector.Visit(rawURL); err != nil {
		send(fetchResult{err: err})
	}
	collector.Wait()

	select {
	case res := <-resultCh:
		if err := ctx.Err(); err != nil {
			return Page{}, err
		}
		return res.page, res.err
	default:
		return Page{}, errors.New("colly fetch produced no result")
	}
}

type fetchResult struct {
	page Page
	err  error
}

type contextTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t *contextTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.base.RoundTrip(req.WithContext(t.ctx))
}

// FetchWithRetry drives fetcher through the retry policy until success
// or exhaustion, rotating the client identity on every attempt. It
// returns the attempt count alongside the result; on exhaustion the
// last error is wrapped with the accumulated context.
func FetchWithRetry(
	ctx context.Context,
	fetcher Fetcher,
	policy RetryPolicy,
	identities []string,
	rawURL string,
	logger *zap.Logger,
) (Page, int, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var lastErr error
	attempt := 0
	for {
		ua := PickIdentity(identities, nil)
		page, err := fetcher.Fetch(ctx, rawURL, ua)
		attempt++
		if err == nil {
			return page, attempt, nil
		}
		lastErr = err
		if !policy.ShouldRetry(err, attempt) {
			break
		}
		FetchRetries.Inc()
		logger.Debug("fetch attempt failed; backing off",
			zap.String("url", rawURL),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		if err := sleepWithContext(ctx, policy.Backoff(attempt)); err != nil {
			lastErr = err
			break
		}
	}
	return Page{}, attempt, &FetchError{URL: rawURL, Attempts: attempt, Err: lastErr}
}

// FetchError is the terminal failure surfaced after retry exhaustion.
type FetchError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s failed after %d attempt(s): %v", e.URL, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
