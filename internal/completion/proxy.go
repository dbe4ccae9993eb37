package completion

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SlySlayer32/Youtubeseoai/internal/cache"
	"github.com/SlySlayer32/Youtubeseoai/internal/models"
)

// UnconfiguredMessage is streamed verbatim when no upstream credentials
// have been saved. It is a normal assistant-looking reply, not an
// error, so every frontend renders it.
const UnconfiguredMessage = "Please set your API key and base URL in the settings."

// Proxy drives streaming completions and writes finished responses to
// the cache. Partial streams are never cached.
type Proxy struct {
	engine *Engine
	cache  *cache.ResponseCache
}

func NewProxy(engine *Engine, responseCache *cache.ResponseCache) *Proxy {
	return &Proxy{engine: engine, cache: responseCache}
}

// Stream runs the completion and forwards chunks to emit. When the
// stream finishes cleanly the accumulated response is stored under
// cacheKey; pass an empty key to skip caching. Failures are reported
// in-band as plain text appended to whatever was already forwarded, and
// returned so callers can count them.
func (p *Proxy) Stream(ctx context.Context, req Request, cacheKey string, emit func(string) error) error {
	full, err := p.engine.Stream(ctx, req, emit)
	if errors.Is(err, ErrUnconfigured) {
		_ = emit(UnconfiguredMessage)
		return nil
	}
	if err != nil {
		_ = emit(fmt.Sprintf("An error occurred: %v", err))
		return err
	}

	p.cache.Store(ctx, cacheKey, full)
	return nil
}

const titleSystemContent = "You are an expert at generating short titles for conversations. Generate a very brief title (MAXIMUM 5 words) for a conversation based on the user's message and the assistant's response. The title should capture the main topic or purpose of the conversation. Respond with ONLY the title, without quotes, extra text, or any other characters."

// GenerateTitle asks the model for a short conversation title.
func (p *Proxy) GenerateTitle(ctx context.Context, model, message, assistantResponse string) (string, error) {
	req := Request{
		Model: model,
		Messages: []models.Message{
			models.TextMessage("system", titleSystemContent),
			models.TextMessage("user", fmt.Sprintf("User message: %s \n \n Assistant response: %s", message, assistantResponse)),
			models.TextMessage("assistant", "The suitable title for this conversation is: "),
		},
		Parameters: map[string]models.ParamValue{
			"temperature": models.NumberParam(0),
		},
	}
	title, err := p.engine.Complete(ctx, req)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(title), nil
}
