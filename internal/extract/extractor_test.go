package extract

import (
	"strings"
	"testing"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head><title>Rover Update</title></head>
<body>
<header><nav>Home | News | About</nav></header>
<article>
<h1>Mars Rover Finds Unusual Rock Formation</h1>
<p>The rover's instruments detected layered sediment consistent with an
ancient lakebed, mission scientists said on Tuesday. The discovery adds to
growing evidence that the crater once held liquid water.</p>
<p>Further drilling is planned for next month, when the rover will attempt
to cache a sample for a future return mission.</p>
</article>
<footer>Copyright 2025</footer>
</body>
</html>`

func TestWebpage_ExtractsMainContent(t *testing.T) {
	e := New(nil)
	text, err := e.Webpage("https://news.example/rover", []byte(articleHTML), "text/html; charset=utf-8")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "layered sediment") {
		t.Errorf("expected article body in extracted text, got %q", text)
	}
	if strings.Contains(text, "Copyright 2025") {
		t.Errorf("boilerplate should be stripped, got %q", text)
	}
}

func TestWebpage_NonHTMLContentType(t *testing.T) {
	e := New(nil)
	for _, ct := range []string{"application/pdf", "image/png", "application/json", ""} {
		text, err := e.Webpage("https://example.com/x", []byte("%PDF-1.4"), ct)
		if err != nil {
			t.Fatalf("content type %q: non-HTML must not be an error, got %v", ct, err)
		}
		if text != "" {
			t.Errorf("content type %q: expected empty string, got %q", ct, text)
		}
	}
}

func TestArxivAbstract(t *testing.T) {
	page := `<html><body>
<blockquote class="abstract mathjax">
<span class="descriptor">Abstract:</span> We present a novel approach to
distributed consensus under partial synchrony.
</blockquote>
</body></html>`

	e := New(nil)
	text, err := e.ArxivAbstract([]byte(page))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(text, "We present a novel approach") {
		t.Errorf("expected abstract text without the label, got %q", text)
	}
}

func TestArxivAbstract_Missing(t *testing.T) {
	e := New(nil)
	if _, err := e.ArxivAbstract([]byte("<html><body>not a paper page</body></html>")); err == nil {
		t.Fatal("expected an error when no abstract is present")
	}
}

func TestArxivPDF_InvalidData(t *testing.T) {
	e := New(nil)
	if _, err := e.ArxivPDF([]byte("this is not a pdf")); err == nil {
		t.Fatal("expected an error for invalid PDF data")
	}
}
