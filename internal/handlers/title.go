package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/SlySlayer32/Youtubeseoai/internal/completion"
	"github.com/SlySlayer32/Youtubeseoai/internal/models"
)

// TitleHandler generates short conversation titles.
type TitleHandler struct {
	proxy *completion.Proxy
}

// NewTitleHandler creates a new title handler
func NewTitleHandler(proxy *completion.Proxy) *TitleHandler {
	return &TitleHandler{proxy: proxy}
}

// Handle processes POST /generate-title. Failures return a null title
// rather than an error status; the frontend keeps its placeholder.
func (h *TitleHandler) Handle(c *fiber.Ctx) error {
	var req models.TitleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	title, err := h.proxy.GenerateTitle(c.Context(), req.Model, req.Message, req.AssistantResponse)
	if err != nil {
		log.Printf("⚠️ [TITLE] Generation failed: %v", err)
		return c.JSON(fiber.Map{"title": nil})
	}
	return c.JSON(fiber.Map{"title": title})
}
