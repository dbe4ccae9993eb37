// Package intent classifies an incoming chat message into a content
// augmentation intent and produces the prompt rewrite for it. Classification
// is pure: it never performs I/O, it only decides what the retrieval layer
// should fetch.
package intent

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
)

// Kind is the augmentation intent of a message.
type Kind int

const (
	PlainChat Kind = iota
	WebSearch
	WebPage
	YouTube
	Arxiv
)

func (k Kind) String() string {
	switch k {
	case WebSearch:
		return "web_search"
	case WebPage:
		return "web_page"
	case YouTube:
		return "youtube"
	case Arxiv:
		return "arxiv"
	default:
		return "plain_chat"
	}
}

// ErrInvalidRequest marks a recognized augmentation request whose target
// couldn't be parsed. The wrapped message is user-visible.
var ErrInvalidRequest = errors.New("invalid augmentation request")

// Request is the immutable classification result for one message.
type Request struct {
	Kind          Kind
	Query         string // rewritten user content for the user turn
	SystemContent string // rewritten system prompt, "" keeps the caller's
	URL           string // matched URL for URL-bearing intents
	VideoID       string // extracted YouTube video id
	ArxivKind     string // "abs" or "pdf"
	SearchQuery   string // raw query for web search
}

var (
	youtubeDetectRe = regexp.MustCompile(`(https?://)?(www\.)?(youtube|youtu|youtube-nocookie)\.(com|be)/.+`)
	youtubeStripRe  = regexp.MustCompile(`(https?://)?(www\.)?(youtube|youtu|youtube-nocookie)\.(com|be)/[^ ]+`)
	videoIDRe       = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([a-zA-Z0-9_-]{11})`)
	bareVideoIDRe   = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
	arxivRe         = regexp.MustCompile(`https?://arxiv\.org/(abs|pdf)/\d+\.\d+(v\d+)?`)
	arxivStripRe    = regexp.MustCompile(`https?://arxiv\.org/(abs|pdf)/\d+\.\d+(v\d+)?[^ ]*`)
	urlRe           = regexp.MustCompile(`https?://\S+`)
)

// HasMarker reports whether the message starts with the two-character
// augmentation marker ("@s" followed by whitespace or end of string).
func HasMarker(message string) bool {
	if !strings.HasPrefix(strings.ToLower(message), "@s") {
		return false
	}
	if len(message) == 2 {
		return true
	}
	r := []rune(message[2:])
	return len(r) > 0 && unicode.IsSpace(r[0])
}

// Classify decides the augmentation intent for a raw message. Patterns are
// tried in fixed priority order (YouTube, arXiv, generic URL, web search) and
// the first match wins, so a message carrying both a YouTube link and search
// terms is always a YouTube request.
func Classify(message string) (Request, error) {
	if !HasMarker(message) {
		return Request{Kind: PlainChat, Query: message}, nil
	}

	content := strings.TrimSpace(message[2:])
	if content == "" {
		return Request{}, fmt.Errorf("%w: Please provide a search query", ErrInvalidRequest)
	}

	switch {
	case youtubeDetectRe.MatchString(content):
		return classifyYouTube(content)
	case arxivRe.MatchString(content):
		return classifyArxiv(content)
	case urlRe.MatchString(content):
		return classifyWebPage(content)
	default:
		return classifyWebSearch(content), nil
	}
}

func classifyYouTube(content string) (Request, error) {
	videoID := ""
	if m := videoIDRe.FindStringSubmatch(content); m != nil {
		videoID = m[1]
	} else if bareVideoIDRe.MatchString(content) {
		videoID = content
	}
	if videoID == "" {
		return Request{}, fmt.Errorf("%w: Please provide a valid YouTube URL or video ID", ErrInvalidRequest)
	}

	req := Request{Kind: YouTube, VideoID: videoID}
	remaining := strings.TrimSpace(youtubeStripRe.ReplaceAllString(content, ""))
	if remaining != "" {
		req.SystemContent = fmt.Sprintf("You are an assistant specialized in Question & Answer. Please provide a clear and concise response to the user query based on the video transcript. Query: %s", remaining)
		req.Query = remaining + " \n\n "
	} else {
		req.SystemContent = "You are an assistant specialized in summarizing videos. Please provide a clear, concise, and well-formatted summary of the video content."
	}
	return req, nil
}

func classifyArxiv(content string) (Request, error) {
	m := arxivRe.FindStringSubmatch(content)
	if m == nil {
		return Request{}, fmt.Errorf("%w: Invalid arXiv URL", ErrInvalidRequest)
	}

	req := Request{Kind: Arxiv, URL: m[0], ArxivKind: m[1]}
	remaining := strings.TrimSpace(arxivStripRe.ReplaceAllString(content, ""))
	if remaining != "" {
		req.SystemContent = fmt.Sprintf("You are an assistant specialized in Question & Answer. Please provide a clear and concise response to the user query based on the arXiv paper. Query: %s", remaining)
		req.Query = remaining + " \n\n "
	} else {
		req.SystemContent = "You are an assistant specialized in summarizing arXiv papers. Please provide a clear, concise, and well-formatted summary of the paper's content."
	}
	return req, nil
}

func classifyWebPage(content string) (Request, error) {
	m := urlRe.FindString(content)
	if m == "" {
		return Request{}, fmt.Errorf("%w: Please provide a valid URL", ErrInvalidRequest)
	}

	req := Request{Kind: WebPage, URL: m}
	remaining := strings.TrimSpace(urlRe.ReplaceAllString(content, ""))
	if remaining != "" {
		req.SystemContent = fmt.Sprintf("You are an assistant specialized in Question & Answer. Please provide a clear and concise response to the user query based on the webpage content. Query: %s", remaining)
		req.Query = remaining + " \n\n "
	} else {
		req.SystemContent = "You are an assistant specialized in summarizing webpages. Please provide a clear, concise, and well-formatted summary of the webpage content."
	}
	return req, nil
}

func classifyWebSearch(content string) Request {
	return Request{
		Kind:          WebSearch,
		SearchQuery:   content,
		Query:         fmt.Sprintf("SEARCH QUERY: %s \n\n ", content),
		SystemContent: searchSystemContent(content, time.Now()),
	}
}

func searchSystemContent(query string, now time.Time) string {
	return fmt.Sprintf(`CURRENT_SYSTEM_TIME = %q

You are a knowledgeable search assistant. Analyze the following search query and use latest information from the provided source texts to create a comprehensive response:

SEARCH QUERY: %s

Instructions:
- Focus ONLY on directly answering the query using the provided sources
- NO general background or context unless specifically requested
- Provide accurate, detailed information using an unbiased, journalistic tone
- Use markdown formatting for better readability:
• Lists and bullet points for multiple items
• Code blocks with language specification
- Tables for structured data
- Focus on factual information without subjective statements
- Organize information logically with clear paragraph breaks
- Match the query's language and tone

For specialized topics:
- Academic: Provide detailed analysis with proper sections
- News: Summarize key points with bullet points.
- Technical: Include code blocks with language specification
- Scientific: Use LaTeX for formulas (\(inline\) or \[block\])
- Biographical: Focus on key facts and achievements
- Products: Group options by category (max 5 recommendations)`,
		now.Format("2006-01-02 15:04:05"), query)
}
