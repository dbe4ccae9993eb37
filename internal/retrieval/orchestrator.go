package retrieval

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/SlySlayer32/Youtubeseoai/internal/extract"
	"github.com/SlySlayer32/Youtubeseoai/internal/intent"
	"github.com/SlySlayer32/Youtubeseoai/internal/retry"
	"github.com/SlySlayer32/Youtubeseoai/internal/search"
)

// Result holds the retrieved source texts in request order. A source
// that could not be fetched occupies its slot with an empty string, so
// the surviving texts never shift position. Sources names what each
// slot was fetched from (a URL, or a video id for transcripts).
type Result struct {
	Texts   []string
	Sources []string
}

// Combined concatenates the source texts for prompt augmentation.
func (r Result) Combined() string {
	return strings.Join(r.Texts, "")
}

// Empty reports whether no source contributed any text.
func (r Result) Empty() bool {
	for _, t := range r.Texts {
		if t != "" {
			return false
		}
	}
	return true
}

// Orchestrator resolves a classified request into source texts. Search
// results are fetched concurrently; every source is retried
// independently and degrades to an empty slot on terminal failure.
type Orchestrator struct {
	search    *search.Client
	fetcher   *Fetcher
	extractor *extract.Extractor
	log       *logrus.Logger
}

// NewOrchestrator creates a retrieval orchestrator.
func NewOrchestrator(searchClient *search.Client, fetcher *Fetcher, extractor *extract.Extractor) *Orchestrator {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return &Orchestrator{
		search:    searchClient,
		fetcher:   fetcher,
		extractor: extractor,
		log:       logger,
	}
}

// Retrieve fetches the external content a request needs. It never
// returns an error: a retrieval that fails completely yields an empty
// Result and the chat proceeds without augmentation.
func (o *Orchestrator) Retrieve(ctx context.Context, req intent.Request) Result {
	switch req.Kind {
	case intent.WebSearch:
		return o.retrieveSearch(ctx, req.SearchQuery)
	case intent.WebPage:
		text := o.fetchPage(ctx, req.URL)
		return Result{Texts: []string{text}, Sources: []string{req.URL}}
	case intent.Arxiv:
		text := o.fetchArxiv(ctx, req.URL, req.ArxivKind)
		return Result{Texts: []string{text}, Sources: []string{req.URL}}
	case intent.YouTube:
		text := o.fetchTranscript(ctx, req.VideoID)
		return Result{Texts: []string{text}, Sources: []string{req.VideoID}}
	default:
		return Result{}
	}
}

func (o *Orchestrator) retrieveSearch(ctx context.Context, query string) Result {
	urls, err := o.search.Search(ctx, query, retry.DefaultResults)
	if err != nil {
		o.log.WithError(err).WithField("query", query).Warn("web search failed, continuing without sources")
		return Result{}
	}
	if len(urls) == 0 {
		return Result{}
	}

	texts := make([]string, len(urls))
	var wg sync.WaitGroup
	for i, u := range urls {
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			text := o.fetchPage(ctx, u)
			if text == "" {
				return
			}
			texts[i] = fmt.Sprintf("Source text %d from website %s: \n \n %s \n \n", i+1, u, text)
		}(i, u)
	}
	wg.Wait()

	return Result{Texts: texts, Sources: urls}
}

func (o *Orchestrator) fetchPage(ctx context.Context, pageURL string) string {
	var text string
	err := retry.Do(ctx, retry.Limit+1, retry.Delay, func(ctx context.Context) error {
		body, contentType, err := o.fetcher.Fetch(ctx, pageURL)
		if errors.Is(err, ErrRobotsBlocked) {
			return retry.Permanent(err)
		}
		if err != nil {
			return err
		}
		text, err = o.extractor.Webpage(pageURL, body, contentType)
		if err != nil {
			return retry.Permanent(err)
		}
		return nil
	})
	if err != nil {
		o.log.WithError(err).WithField("url", pageURL).Warn("source fetch failed")
		return ""
	}
	return text
}

func (o *Orchestrator) fetchArxiv(ctx context.Context, paperURL, kind string) string {
	var text string
	err := retry.Do(ctx, retry.Limit+1, retry.Delay, func(ctx context.Context) error {
		body, _, err := o.fetcher.Fetch(ctx, paperURL)
		if err != nil {
			return err
		}
		if kind == "pdf" {
			text, err = o.extractor.ArxivPDF(body)
		} else {
			text, err = o.extractor.ArxivAbstract(body)
		}
		if err != nil {
			return retry.Permanent(err)
		}
		return nil
	})
	if err != nil {
		o.log.WithError(err).WithField("url", paperURL).Warn("arXiv fetch failed")
		return ""
	}
	return text
}

func (o *Orchestrator) fetchTranscript(ctx context.Context, videoID string) string {
	var text string
	err := retry.Do(ctx, retry.Limit+1, retry.Delay, func(ctx context.Context) error {
		var err error
		text, err = o.extractor.Transcript(ctx, videoID)
		return err
	})
	if err != nil {
		o.log.WithError(err).WithField("video_id", videoID).Warn("transcript fetch failed")
		return ""
	}
	return text
}
