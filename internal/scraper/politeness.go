package scraper

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces out requests to the same origin so sequential scraping
// does not hammer a single server. Each origin gets its own token
// bucket: the first request passes immediately and every later one
// waits out the configured delay.
type Pacer struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
}

// NewPacer builds a Pacer allowing one request per delay per origin.
// A non-positive delay disables pacing.
func NewPacer(delay time.Duration) *Pacer {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &Pacer{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
	}
}

// Wait blocks until the origin of rawURL may be contacted again. It
// returns early with the context error on cancellation.
func (p *Pacer) Wait(ctx context.Context, rawURL string) error {
	origin := "unknown"
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		origin = originKey(u)
	}

	p.mu.Lock()
	limiter, ok := p.limiters[origin]
	if !ok {
		limiter = rate.NewLimiter(p.limit, 1)
		p.limiters[origin] = limiter
	}
	p.mu.Unlock()

	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("pace %s: %w", origin, err)
	}
	return nil
}
