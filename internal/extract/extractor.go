// Package extract turns fetched documents into normalized plain text.
// It is polymorphic over the source kind: generic webpages, arXiv abstract
// pages, arXiv PDFs, and YouTube transcripts each have a dedicated branch.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"
	"github.com/markusmobius/go-trafilatura"

	"github.com/SlySlayer32/Youtubeseoai/internal/transcript"
)

// Extractor normalizes raw documents into plain text.
type Extractor struct {
	transcripts *transcript.Client
}

// New creates an extractor. The transcript client backs the YouTube branch.
func New(transcripts *transcript.Client) *Extractor {
	return &Extractor{transcripts: transcripts}
}

// htmlContentType reports whether a Content-Type header denotes an HTML
// document we can extract from.
func htmlContentType(contentType string) bool {
	contentType = strings.ToLower(contentType)
	return strings.Contains(contentType, "text/html") ||
		strings.Contains(contentType, "application/xhtml+xml")
}

// Webpage extracts the main text content of an HTML page. Non-HTML content
// types yield an empty string with no error: the source simply contributes
// nothing, and the caller must not retry.
func (e *Extractor) Webpage(pageURL string, body []byte, contentType string) (string, error) {
	if !htmlContentType(contentType) {
		return "", nil
	}

	opts := trafilatura.Options{}
	if parsed, err := url.Parse(pageURL); err == nil {
		opts.OriginalURL = parsed
	}

	result, err := trafilatura.Extract(bytes.NewReader(body), opts)
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}
	if result == nil || result.ContentText == "" {
		return "", fmt.Errorf("no content extracted from page")
	}
	return result.ContentText, nil
}

// ArxivAbstract pulls the abstract text out of an arXiv /abs/ page.
func (e *Extractor) ArxivAbstract(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to parse abstract page: %w", err)
	}

	abstract := doc.Find("blockquote.abstract").First().Text()
	abstract = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(abstract), "Abstract:"))
	if abstract == "" {
		return "", fmt.Errorf("abstract not found in the response")
	}
	return abstract, nil
}

// ArxivPDF extracts the text of every page of an arXiv PDF, joined with
// single spaces. Pages that fail individually are skipped.
func (e *Extractor) ArxivPDF(body []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var parts []string
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			parts = append(parts, text)
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text extracted from PDF")
	}
	return strings.Join(parts, " "), nil
}

// Transcript fetches and normalizes the transcript of a YouTube video.
func (e *Extractor) Transcript(ctx context.Context, videoID string) (string, error) {
	return e.transcripts.Fetch(ctx, videoID)
}
