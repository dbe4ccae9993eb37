// Package transcript fetches YouTube video transcripts through the caption
// tracks embedded in the watch page.
package transcript

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.3"

// Client fetches transcripts for YouTube videos.
type Client struct {
	watchBase  string
	httpClient *http.Client
}

// NewClient creates a transcript client against youtube.com.
func NewClient() *Client {
	return &Client{
		watchBase: "https://www.youtube.com",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewClientWithBase creates a client against a custom base URL, used in tests.
func NewClientWithBase(base string) *Client {
	c := NewClient()
	c.watchBase = base
	return c
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
}

// Fetch returns the transcript text for a video id, preferring the English
// track and falling back to the first available language. Entries are joined
// with single spaces, no newlines.
func (c *Client) Fetch(ctx context.Context, videoID string) (string, error) {
	page, err := c.get(ctx, c.watchBase+"/watch?v="+videoID)
	if err != nil {
		return "", fmt.Errorf("failed to load watch page: %w", err)
	}

	tracks, err := parseCaptionTracks(page)
	if err != nil {
		return "", err
	}
	if len(tracks) == 0 {
		return "", fmt.Errorf("no transcripts available for video %s", videoID)
	}

	track := tracks[0]
	for _, t := range tracks {
		if t.LanguageCode == "en" {
			track = t
			break
		}
	}

	raw, err := c.get(ctx, track.BaseURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch caption track: %w", err)
	}

	return parseTrackXML(raw)
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// parseCaptionTracks pulls the captionTracks array out of the player config
// JSON embedded in the watch page HTML.
func parseCaptionTracks(page []byte) ([]captionTrack, error) {
	const marker = `"captionTracks":`
	idx := strings.Index(string(page), marker)
	if idx < 0 {
		return nil, nil
	}

	dec := json.NewDecoder(strings.NewReader(string(page[idx+len(marker):])))
	var tracks []captionTrack
	if err := dec.Decode(&tracks); err != nil {
		return nil, fmt.Errorf("failed to parse caption tracks: %w", err)
	}
	return tracks, nil
}

type trackXML struct {
	XMLName xml.Name `xml:"transcript"`
	Texts   []struct {
		Value string `xml:",chardata"`
	} `xml:"text"`
}

func parseTrackXML(raw []byte) (string, error) {
	var track trackXML
	if err := xml.Unmarshal(raw, &track); err != nil {
		return "", fmt.Errorf("failed to parse caption XML: %w", err)
	}

	parts := make([]string, 0, len(track.Texts))
	for _, entry := range track.Texts {
		// Caption text arrives double-escaped (&amp;#39; and friends).
		text := strings.TrimSpace(html.UnescapeString(entry.Value))
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " "), nil
}
