package completion

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/SlySlayer32/Youtubeseoai/internal/models"
	"github.com/SlySlayer32/Youtubeseoai/internal/settings"
)

// ErrUnconfigured is returned when no API key and base URL have been
// saved yet.
var ErrUnconfigured = errors.New("API key and base URL not configured")

// Request is a completion call against the configured upstream.
type Request struct {
	Model      string
	Messages   []models.Message
	Parameters map[string]models.ParamValue
}

// Engine talks to an OpenAI-compatible chat completions endpoint using
// whatever credentials the settings service currently holds.
type Engine struct {
	settings   *settings.Service
	httpClient *http.Client
}

func NewEngine(st *settings.Service) *Engine {
	return &Engine{
		settings: st,
		// No client timeout: streams legitimately run for minutes. The
		// request context bounds each call instead.
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

func (e *Engine) open(ctx context.Context, req Request, stream bool) (*http.Response, error) {
	apiKey, baseURL, ok := e.settings.Credentials()
	if !ok {
		return nil, ErrUnconfigured
	}

	payload := map[string]any{
		"model":    req.Model,
		"messages": req.Messages,
		"stream":   stream,
	}
	// Sampling parameters ride at the top level next to model and
	// messages, the way OpenAI-compatible servers expect them.
	for k, v := range req.Parameters {
		payload[k] = v
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	if stream {
		httpReq.Header.Set("Accept", "text/event-stream")
	}

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("completion request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, fmt.Errorf("completion returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return resp, nil
}

type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content *string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Stream runs a streaming completion, forwarding each content delta to
// emit in arrival order. It returns the accumulated response text; on
// error the accumulation covers everything forwarded so far.
func (e *Engine) Stream(ctx context.Context, req Request, emit func(string) error) (string, error) {
	resp, err := e.open(ctx, req, true)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var full strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}

		data := strings.TrimPrefix(line, "data: ")
		if data == "[DONE]" {
			break
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			continue
		}
		if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == nil {
			continue
		}
		content := *chunk.Choices[0].Delta.Content
		if content == "" {
			continue
		}

		if err := emit(content); err != nil {
			return full.String(), fmt.Errorf("client write failed: %w", err)
		}
		full.WriteString(content)
	}
	if err := scanner.Err(); err != nil {
		return full.String(), fmt.Errorf("stream read failed: %w", err)
	}

	return full.String(), nil
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete runs a non-streaming completion and returns the assistant's
// message content.
func (e *Engine) Complete(ctx context.Context, req Request) (string, error) {
	resp, err := e.open(ctx, req, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var parsed completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to parse completion: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
