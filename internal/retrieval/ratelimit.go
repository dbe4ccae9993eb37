package retrieval

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiter enforces a per-domain politeness delay so that concurrent
// fetches never hammer a single host.
type RateLimiter struct {
	domainLimiters sync.Map
	limit          rate.Limit
	burst          int
}

// NewRateLimiter creates a limiter allowing at most eventsPerSecond
// requests per second to any single domain.
func NewRateLimiter(eventsPerSecond float64) *RateLimiter {
	return &RateLimiter{
		limit: rate.Limit(eventsPerSecond),
		burst: 1,
	}
}

// Wait blocks until the request to urlStr is allowed to proceed or the
// context is cancelled.
func (rl *RateLimiter) Wait(ctx context.Context, urlStr string) error {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return err
	}

	limiter, _ := rl.domainLimiters.LoadOrStore(
		parsedURL.Host,
		rate.NewLimiter(rl.limit, rl.burst),
	)
	return limiter.(*rate.Limiter).Wait(ctx)
}
