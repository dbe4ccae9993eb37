package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/SlySlayer32/Youtubeseoai/internal/abtest"
)

// ABTestHandler exposes A/B experiment management.
type ABTestHandler struct {
	store *abtest.Store
}

// NewABTestHandler creates a new A/B testing handler
func NewABTestHandler(store *abtest.Store) *ABTestHandler {
	return &ABTestHandler{store: store}
}

// HandleCreate processes POST /api/ab/experiments
func (h *ABTestHandler) HandleCreate(c *fiber.Ctx) error {
	var req struct {
		Name     string            `json:"name"`
		Variants map[string]string `json:"variants"`
	}
	if err := c.BodyParser(&req); err != nil || req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Experiment name and variants are required",
		})
	}

	id, err := h.store.CreateExperiment(c.Context(), req.Name, req.Variants)
	if err != nil {
		log.Printf("❌ [ABTEST] Create failed: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"experiment_id": id})
}

// HandleVariant processes GET /api/ab/experiments/:id/variant, serving
// a random variant and counting the impression.
func (h *ABTestHandler) HandleVariant(c *fiber.Ctx) error {
	variant, err := h.store.RandomVariant(c.Context(), c.Params("id"))
	if err != nil {
		log.Printf("❌ [ABTEST] Variant lookup failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to select variant",
		})
	}
	if variant == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Experiment not found",
		})
	}
	return c.JSON(variant)
}

// HandleClick processes POST /api/ab/variants/:id/click
func (h *ABTestHandler) HandleClick(c *fiber.Ctx) error {
	if err := h.store.RecordClick(c.Context(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to record click",
		})
	}
	return c.JSON(fiber.Map{"status": "success"})
}

// HandleConversion processes POST /api/ab/variants/:id/conversion
func (h *ABTestHandler) HandleConversion(c *fiber.Ctx) error {
	if err := h.store.RecordConversion(c.Context(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to record conversion",
		})
	}
	return c.JSON(fiber.Map{"status": "success"})
}

// HandleResults processes GET /api/ab/experiments/:id/results
func (h *ABTestHandler) HandleResults(c *fiber.Ctx) error {
	results, err := h.store.Results(c.Context(), c.Params("id"))
	if err != nil {
		log.Printf("❌ [ABTEST] Results query failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load results",
		})
	}
	if results == nil {
		results = []abtest.VariantResult{}
	}
	return c.JSON(fiber.Map{"results": results})
}
