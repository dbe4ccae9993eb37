package intent

import (
	"errors"
	"strings"
	"testing"
)

func TestHasMarker(t *testing.T) {
	tests := []struct {
		message string
		want    bool
	}{
		{"@s latest Mars rover news", true},
		{"@S capitalized marker", true},
		{"@s", true},
		{"@search no space", false},
		{"hello @s there", false},
		{"plain message", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := HasMarker(tt.message); got != tt.want {
			t.Errorf("HasMarker(%q) = %v, want %v", tt.message, got, tt.want)
		}
	}
}

func TestClassify_PlainChat(t *testing.T) {
	req, err := Classify("what is the capital of France?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Kind != PlainChat {
		t.Errorf("expected PlainChat, got %v", req.Kind)
	}
	if req.SystemContent != "" {
		t.Errorf("plain chat must not rewrite the system prompt, got %q", req.SystemContent)
	}
}

func TestClassify_PriorityOrder(t *testing.T) {
	// A message with both a YouTube URL and an arXiv URL is a YouTube request:
	// the YouTube pattern is checked first.
	req, err := Classify("@s check this https://youtu.be/dQw4w9WgXcQ and also https://arxiv.org/abs/1234.5678")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Kind != YouTube {
		t.Fatalf("expected YouTube, got %v", req.Kind)
	}
	if req.VideoID != "dQw4w9WgXcQ" {
		t.Errorf("expected video id dQw4w9WgXcQ, got %q", req.VideoID)
	}
}

func TestClassify_YouTubeSummarize(t *testing.T) {
	req, err := Classify("@s https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Kind != YouTube {
		t.Fatalf("expected YouTube, got %v", req.Kind)
	}
	if req.Query != "" {
		t.Errorf("no remaining text, query should be empty, got %q", req.Query)
	}
	if !strings.Contains(req.SystemContent, "summarizing videos") {
		t.Errorf("expected summarize template, got %q", req.SystemContent)
	}
}

func TestClassify_YouTubeFocusedQuery(t *testing.T) {
	req, err := Classify("@s what is the main argument https://youtu.be/dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(req.SystemContent, "Question & Answer") {
		t.Errorf("remaining text should switch to the Q&A template, got %q", req.SystemContent)
	}
	if !strings.Contains(req.SystemContent, "what is the main argument") {
		t.Errorf("query should be embedded in the template, got %q", req.SystemContent)
	}
	if !strings.HasPrefix(req.Query, "what is the main argument") {
		t.Errorf("unexpected rewritten query %q", req.Query)
	}
}

func TestClassify_YouTubeInvalid(t *testing.T) {
	_, err := Classify("@s https://youtube.com/playlist?list=abc")
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestClassify_ArxivAbs(t *testing.T) {
	req, err := Classify("@s https://arxiv.org/abs/2301.00001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Kind != Arxiv {
		t.Fatalf("expected Arxiv, got %v", req.Kind)
	}
	if req.ArxivKind != "abs" {
		t.Errorf("expected abs, got %q", req.ArxivKind)
	}
	if req.URL != "https://arxiv.org/abs/2301.00001" {
		t.Errorf("unexpected URL %q", req.URL)
	}
}

func TestClassify_ArxivPDFWithQuery(t *testing.T) {
	req, err := Classify("@s https://arxiv.org/pdf/2301.00001v2 what datasets were used")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.ArxivKind != "pdf" {
		t.Errorf("expected pdf, got %q", req.ArxivKind)
	}
	if !strings.Contains(req.SystemContent, "what datasets were used") {
		t.Errorf("query should be embedded in the template, got %q", req.SystemContent)
	}
}

func TestClassify_WebPage(t *testing.T) {
	req, err := Classify("@s https://example.com/article")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Kind != WebPage {
		t.Fatalf("expected WebPage, got %v", req.Kind)
	}
	if req.URL != "https://example.com/article" {
		t.Errorf("unexpected URL %q", req.URL)
	}
	if !strings.Contains(req.SystemContent, "summarizing webpages") {
		t.Errorf("expected summarize template, got %q", req.SystemContent)
	}
}

func TestClassify_BareMarkerRejected(t *testing.T) {
	for _, message := range []string{"@s", "@s   ", "@s \t "} {
		_, err := Classify(message)
		if !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("Classify(%q): expected ErrInvalidRequest, got %v", message, err)
		}
		if err != nil && !strings.Contains(err.Error(), "Please provide a search query") {
			t.Errorf("Classify(%q): unexpected message %q", message, err)
		}
	}
}

func TestClassify_WebSearchFallback(t *testing.T) {
	req, err := Classify("@s latest Mars rover news")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Kind != WebSearch {
		t.Fatalf("expected WebSearch, got %v", req.Kind)
	}
	if req.SearchQuery != "latest Mars rover news" {
		t.Errorf("unexpected search query %q", req.SearchQuery)
	}
	if !strings.Contains(req.Query, "SEARCH QUERY: latest Mars rover news") {
		t.Errorf("unexpected rewritten query %q", req.Query)
	}
	if !strings.Contains(req.SystemContent, "latest Mars rover news") {
		t.Errorf("search template should embed the query")
	}
}
