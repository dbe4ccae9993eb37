package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/SlySlayer32/Youtubeseoai/internal/settings"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	settings *settings.Service
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(svc *settings.Service) *HealthHandler {
	return &HealthHandler{settings: svc}
}

// Handle responds with server health status
func (h *HealthHandler) Handle(c *fiber.Ctx) error {
	_, _, configured := h.settings.Credentials()
	return c.JSON(fiber.Map{
		"status":     "healthy",
		"configured": configured,
		"models":     len(h.settings.Models()),
		"timestamp":  time.Now().Format(time.RFC3339),
	})
}
