// Package search wraps a SearXNG instance as the web search backend.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/SlySlayer32/Youtubeseoai/internal/retry"
)

const userAgent = "Youtubeseoai/1.0 (Bot)"

// Client queries a SearXNG instance and returns result URLs.
type Client struct {
	baseURL    string
	ownHost    string
	httpClient *http.Client
}

// NewClient creates a search client for the given SearXNG base URL.
func NewClient(baseURL string) *Client {
	ownHost := ""
	if parsed, err := url.Parse(baseURL); err == nil {
		ownHost = parsed.Host
	}
	return &Client{
		baseURL: baseURL,
		ownHost: ownHost,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type searchResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// Search returns up to maxResults result URLs in engine order, with its own
// retry policy. URLs pointing back at the search instance itself are skipped.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]string, error) {
	var links []string

	err := retry.Do(ctx, retry.Limit+1, retry.Delay, func(ctx context.Context) error {
		found, err := c.search(ctx, query)
		if err != nil {
			return err
		}
		links = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(links) > maxResults {
		links = links[:maxResults]
	}
	return links, nil
}

func (c *Client) search(ctx context.Context, query string) ([]string, error) {
	searchURL := fmt.Sprintf("%s/search?q=%s&format=json&safesearch=1",
		c.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, "GET", searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search failed with status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse search results: %w", err)
	}

	var links []string
	for _, res := range parsed.Results {
		if c.isOwnHost(res.URL) {
			continue
		}
		links = append(links, res.URL)
	}
	return links, nil
}

// isOwnHost filters out results that point back at the search engine itself.
func (c *Client) isOwnHost(resultURL string) bool {
	if c.ownHost == "" {
		return false
	}
	parsed, err := url.Parse(resultURL)
	if err != nil {
		return false
	}
	return parsed.Host == c.ownHost
}
