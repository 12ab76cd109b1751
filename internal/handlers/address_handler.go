package handlers

import (
	"errors"
	"log"

	"thulasibloom/internal/middleware"
	"thulasibloom/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AddressHandler handles HTTP requests for the address book. All routes
// require an authenticated user.
type AddressHandler struct {
	service *services.AddressService
}

// NewAddressHandler creates a new AddressHandler.
func NewAddressHandler(service *services.AddressService) *AddressHandler {
	return &AddressHandler{
		service: service,
	}
}

// RegisterRoutes registers the address book routes with the Fiber app.
func (h *AddressHandler) RegisterRoutes(router fiber.Router) {
	addressRoutes := router.Group("/addresses")
	addressRoutes.Post("/", h.HandleSaveAddress)
	addressRoutes.Get("/", h.HandleListAddresses)
}

// HandleSaveAddress validates and saves a new delivery address for the
// authenticated user.
func (h *AddressHandler) HandleSaveAddress(c *fiber.Ctx) error {
	var in services.SaveAddressInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	ownerID, _ := c.Locals(middleware.LocalOwnerID).(string)
	address, err := h.service.Save(ownerID, in)
	if err != nil {
		var addrErr *services.AddressValidationError
		if errors.As(err, &addrErr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Validation failed",
				"errors":  addrErr.Fields,
			})
		}
		log.Printf("Error saving address for %s: %v", ownerID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not save address",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Address saved",
		"id":      address.ID,
		"address": address,
	})
}

// HandleListAddresses lists the authenticated user's saved addresses,
// newest first.
func (h *AddressHandler) HandleListAddresses(c *fiber.Ctx) error {
	ownerID, _ := c.Locals(middleware.LocalOwnerID).(string)
	addresses, err := h.service.ListForOwner(ownerID)
	if err != nil {
		log.Printf("Error listing addresses for %s: %v", ownerID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve addresses",
			"error":   err.Error(),
		})
	}
	return c.JSON(addresses)
}
