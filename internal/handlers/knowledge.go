package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/SlySlayer32/Youtubeseoai/internal/knowledge"
)

// KnowledgeHandler exposes the in-memory knowledge store.
type KnowledgeHandler struct {
	store *knowledge.Store
}

// NewKnowledgeHandler creates a new knowledge handler
func NewKnowledgeHandler(store *knowledge.Store) *KnowledgeHandler {
	return &KnowledgeHandler{store: store}
}

// HandleIngest processes POST /api/knowledge/ingest
func (h *KnowledgeHandler) HandleIngest(c *fiber.Ctx) error {
	var doc knowledge.Document
	if err := c.BodyParser(&doc); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid knowledge data format. Must be a JSON object.",
		})
	}

	ids, err := h.store.Ingest(doc)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"status":        "success",
		"message":       fmt.Sprintf("Knowledge ingested with id: %v", doc["id"]),
		"knowledge_ids": ids,
	})
}

// HandleQuery processes POST /api/knowledge/query
func (h *KnowledgeHandler) HandleQuery(c *fiber.Ctx) error {
	var req struct {
		Query string `json:"query"`
	}
	if err := c.BodyParser(&req); err != nil || req.Query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Query text is required.",
		})
	}

	results := h.store.Query(req.Query)
	if results == nil {
		results = []knowledge.Document{}
	}
	return c.JSON(fiber.Map{
		"status":   "success",
		"query":    req.Query,
		"response": results,
	})
}
