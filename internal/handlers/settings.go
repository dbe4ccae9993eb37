package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/SlySlayer32/Youtubeseoai/internal/settings"
)

// SettingsHandler manages upstream credentials and the model list.
type SettingsHandler struct {
	settings *settings.Service
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(svc *settings.Service) *SettingsHandler {
	return &SettingsHandler{settings: svc}
}

// HandleSave processes POST /save-settings
func (h *SettingsHandler) HandleSave(c *fiber.Ctx) error {
	var req struct {
		APIKey  string `json:"apiKey"`
		BaseURL string `json:"baseUrl"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.settings.Save(c.Context(), req.APIKey, req.BaseURL); err != nil {
		log.Printf("❌ [SETTINGS] Save failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save settings",
		})
	}
	return c.JSON(fiber.Map{"status": "success"})
}

// HandleFetchModels processes GET /fetch-models, serving the preloaded
// list without an upstream round trip.
func (h *SettingsHandler) HandleFetchModels(c *fiber.Ctx) error {
	models := h.settings.Models()
	if models == nil {
		models = []string{}
	}
	return c.JSON(models)
}
