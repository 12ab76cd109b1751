package handlers

import (
	"errors"
	"log"

	"thulasibloom/internal/middleware"
	"thulasibloom/internal/services"
	"thulasibloom/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// CheckoutHandler handles HTTP requests for checkout submission and the
// address pre-check.
type CheckoutHandler struct {
	service *services.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(service *services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
	}
}

// RegisterRoutes registers the checkout routes with the Fiber app.
func (h *CheckoutHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/checkout", h.HandleSubmit)
	router.Post("/validate-address", h.HandleValidateAddress)
}

// HandleSubmit drives one checkout submission through the orchestrator.
func (h *CheckoutHandler) HandleSubmit(c *fiber.Ctx) error {
	var req services.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing checkout body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	session := middleware.CartSession(c)
	result, err := h.service.Submit(session, req)
	if err != nil {
		var addrErr *services.AddressValidationError
		switch {
		case errors.As(err, &addrErr):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Validation failed",
				"errors":  addrErr.Fields,
				"result":  result,
			})
		case errors.Is(err, services.ErrEmptyOrder),
			errors.Is(err, services.ErrMissingCustomer),
			errors.Is(err, services.ErrDecryptFailed),
			errors.Is(err, services.ErrPaymentIncomplete):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": err.Error(),
				"result":  result,
			})
		case errors.Is(err, services.ErrTransport):
			log.Printf("Checkout transport failure for %s: %v", session.OwnerID, err)
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"message": "Order submission failed, please retry",
				"result":  result,
			})
		default:
			log.Printf("Checkout failed for %s: %v", session.OwnerID, err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Could not submit order",
				"error":   err.Error(),
			})
		}
	}

	return c.JSON(result)
}

// HandleValidateAddress is the server-side pre-check mirror of the shared
// address rule table. It never trusts or replaces the authoritative check
// performed at submission.
func (h *CheckoutHandler) HandleValidateAddress(c *fiber.Ctx) error {
	var in validation.AddressInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	fieldErrors := validation.ValidateAddress(in)
	if len(fieldErrors) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"errors":  fieldErrors,
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Address is valid",
	})
}
