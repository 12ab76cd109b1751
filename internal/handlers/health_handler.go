package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler handles the health check endpoint.
type HealthHandler struct{}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// RegisterRoutes registers the health check route with the Fiber app.
func (h *HealthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/health", h.HandleHealth)
}

// HandleHealth reports that the server is up.
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "OK",
		"message": "ThulasiBloom server is running",
		"time":    time.Now().Format(time.RFC3339),
	})
}
