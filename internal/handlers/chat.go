package handlers

import (
	"bufio"
	"context"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"github.com/SlySlayer32/Youtubeseoai/internal/cache"
	"github.com/SlySlayer32/Youtubeseoai/internal/completion"
	"github.com/SlySlayer32/Youtubeseoai/internal/intent"
	"github.com/SlySlayer32/Youtubeseoai/internal/logging"
	"github.com/SlySlayer32/Youtubeseoai/internal/metrics"
	"github.com/SlySlayer32/Youtubeseoai/internal/models"
	"github.com/SlySlayer32/Youtubeseoai/internal/retrieval"
)

// ChatHandler drives the augmented chat pipeline: classify the message,
// retrieve external sources, then stream the completion back as raw
// text chunks.
type ChatHandler struct {
	retrieval *retrieval.Orchestrator
	cache     *cache.ResponseCache
	proxy     *completion.Proxy
	metrics   *metrics.Metrics
}

// NewChatHandler creates a new chat handler
func NewChatHandler(orchestrator *retrieval.Orchestrator, responseCache *cache.ResponseCache, proxy *completion.Proxy, m *metrics.Metrics) *ChatHandler {
	return &ChatHandler{
		retrieval: orchestrator,
		cache:     responseCache,
		proxy:     proxy,
		metrics:   m,
	}
}

// Handle processes POST /chat
func (h *ChatHandler) Handle(c *fiber.Ctx) error {
	var req models.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	start := time.Now()

	systemContent := models.DefaultSystemContent
	if req.SystemContent != nil {
		systemContent = *req.SystemContent
	}

	messageText, isText := req.MessageText()
	if !isText {
		// Structured content (image turns) goes straight upstream,
		// skipping classification, retrieval and the cache.
		h.metrics.ChatRequests.WithLabelValues(intent.PlainChat.String()).Inc()
		messages := assembleMessages(systemContent, req.Conversation, models.Message{Role: "user", Content: req.Message}, req)
		return h.stream(c, completion.Request{
			Model:      req.Model,
			Messages:   messages,
			Parameters: req.Parameters,
		}, "", start)
	}

	intentReq, err := intent.Classify(messageText)
	if err != nil {
		// The message asked for augmentation we can't perform. Tell the
		// user in-band, like any other assistant reply.
		return h.streamText(c, userFacingError(err))
	}
	h.metrics.ChatRequests.WithLabelValues(intentReq.Kind.String()).Inc()
	reqLog := logging.WithRequest(uuid.NewString(), intentReq.Kind.String(), req.Model)

	// The cache key uses the original message, never the augmented one,
	// so a repeat question hits even when sources have been fetched.
	cacheKey := cache.Key(messageText, req.Model, req.Parameters)
	if cached, found := h.cache.Lookup(c.Context(), cacheKey); found {
		h.metrics.CacheHits.Inc()
		reqLog.Info("serving cached response")
		return h.streamText(c, cached)
	}
	h.metrics.CacheMisses.Inc()

	userContent := messageText
	if intentReq.Query != "" {
		userContent = intentReq.Query
	}
	if intentReq.SystemContent != "" {
		systemContent = intentReq.SystemContent
	}

	var additional string
	if intentReq.Kind != intent.PlainChat {
		result := h.retrieval.Retrieve(c.Context(), intentReq)
		additional = result.Combined()
		for i, t := range result.Texts {
			if t == "" {
				h.metrics.RetrievalSources.WithLabelValues("failed").Inc()
				logging.WithSource(reqLog, result.Sources[i], i).Warn("source contributed no text")
			} else {
				h.metrics.RetrievalSources.WithLabelValues("ok").Inc()
			}
		}
		if result.Empty() {
			h.metrics.RetrievalFailures.Inc()
			reqLog.Warn("retrieval produced no sources, answering without augmentation")
		}
	}

	messages := assembleMessages(systemContent, req.Conversation, models.TextMessage("user", userContent+additional), req)
	return h.stream(c, completion.Request{
		Model:      req.Model,
		Messages:   messages,
		Parameters: req.Parameters,
	}, cacheKey, start)
}

// HandleContinue processes POST /continue_generation. The conversation
// already ends with a partial assistant turn, so the model picks up
// where it stopped. Continuations are never cached.
func (h *ChatHandler) HandleContinue(c *fiber.Ctx) error {
	var req models.ContinueRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	start := time.Now()

	systemContent := models.DefaultSystemContent
	if req.SystemContent != nil {
		systemContent = *req.SystemContent
	}
	model := req.Model
	if model == "" {
		model = models.DefaultContinueModel
	}

	messages := make([]models.Message, 0, len(req.Conversation)+1)
	if systemContent != "" {
		messages = append(messages, models.TextMessage("system", systemContent))
	}
	messages = append(messages, req.Conversation...)

	return h.stream(c, completion.Request{
		Model:      model,
		Messages:   messages,
		Parameters: req.Parameters,
	}, "", start)
}

func assembleMessages(systemContent string, history []models.Message, userTurn models.Message, req models.ChatRequest) []models.Message {
	messages := make([]models.Message, 0, len(history)+3)
	if systemContent != "" {
		messages = append(messages, models.TextMessage("system", systemContent))
	}
	messages = append(messages, history...)
	messages = append(messages, userTurn)
	if req.IsDeepQueryMode {
		// Seed the assistant turn with the opening tag so the model
		// continues inside it.
		messages = append(messages, models.TextMessage("assistant", req.StartTag+"\n"))
	}
	return messages
}

// userFacingError turns a classification error into the text shown to
// the user.
func userFacingError(err error) string {
	msg := err.Error()
	if cut, found := strings.CutPrefix(msg, intent.ErrInvalidRequest.Error()+": "); found {
		return cut
	}
	return msg
}

// stream runs the completion inside the response body writer so chunks
// reach the client as they arrive.
func (h *ChatHandler) stream(c *fiber.Ctx, req completion.Request, cacheKey string, start time.Time) error {
	setStreamHeaders(c)
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		emit := func(chunk string) error {
			if _, err := w.WriteString(chunk); err != nil {
				return err
			}
			return w.Flush()
		}
		if err := h.proxy.Stream(context.Background(), req, cacheKey, emit); err != nil {
			h.metrics.StreamErrors.Inc()
			log.Printf("❌ [CHAT] Stream failed: %v", err)
		}
		h.metrics.ChatRequestLatency.Observe(time.Since(start).Seconds())
	}))
	return nil
}

// streamText sends a fixed reply through the same streaming surface, so
// the frontend handles cached and live responses identically.
func (h *ChatHandler) streamText(c *fiber.Ctx, text string) error {
	setStreamHeaders(c)
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		if _, err := w.WriteString(text); err != nil {
			return
		}
		w.Flush()
	}))
	return nil
}

func setStreamHeaders(c *fiber.Ctx) {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
}
