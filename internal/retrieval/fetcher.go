package retrieval

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultUserAgent = "Youtubeseoai/1.0 (Bot)"

	// defaultDomainRate is the per-domain request rate in requests per
	// second. Kept conservative so fan-out fetches stay polite.
	defaultDomainRate = 2.0

	maxBodySize = 10 * 1024 * 1024
)

// ErrRobotsBlocked is returned when a site's robots.txt disallows the
// requested path. It is not retryable.
var ErrRobotsBlocked = fmt.Errorf("robots.txt disallows fetching")

// Fetcher downloads source documents with connection pooling, per-domain
// rate limiting and robots.txt compliance.
type Fetcher struct {
	client    *http.Client
	robots    *RobotsChecker
	limiter   *RateLimiter
	userAgent string
}

// NewFetcher creates a fetcher with the default politeness settings.
func NewFetcher() *Fetcher {
	return NewFetcherWithRate(defaultDomainRate)
}

// NewFetcherWithRate creates a fetcher with a custom per-domain rate.
func NewFetcherWithRate(domainRate float64) *Fetcher {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	return &Fetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,
		},
		robots:    NewRobotsChecker(defaultUserAgent),
		limiter:   NewRateLimiter(domainRate),
		userAgent: defaultUserAgent,
	}
}

// Fetch downloads the document at urlStr and returns its body and
// Content-Type. Bodies larger than maxBodySize are truncated.
func (f *Fetcher) Fetch(ctx context.Context, urlStr string) ([]byte, string, error) {
	allowed, err := f.robots.CanFetch(ctx, urlStr)
	if err == nil && !allowed {
		return nil, "", ErrRobotsBlocked
	}

	if err := f.limiter.Wait(ctx, urlStr); err != nil {
		return nil, "", err
	}

	req, err := http.NewRequestWithContext(ctx, "GET", urlStr, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/pdf,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("HTTP %d fetching %s", resp.StatusCode, urlStr)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read body: %w", err)
	}

	return body, resp.Header.Get("Content-Type"), nil
}
