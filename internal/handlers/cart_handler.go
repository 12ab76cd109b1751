package handlers

import (
	"errors"
	"log"
	"strings"

	"thulasibloom/internal/middleware"
	"thulasibloom/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the cart.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/", h.HandleAddItem)
	cartRoutes.Put("/:id", h.HandleUpdateQuantity)
	cartRoutes.Delete("/:id", h.HandleRemoveItem)
	cartRoutes.Delete("/", h.HandleClearCart)
}

// HandleGetCart returns the session's cart lines with the derived total and
// item count.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	session := middleware.CartSession(c)

	items, err := h.service.Items(session)
	if err != nil {
		log.Printf("Error loading cart for %s: %v", session.OwnerID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not load cart",
			"error":   err.Error(),
		})
	}

	var total float64
	count := 0
	for _, item := range items {
		total += item.Subtotal()
		count += item.Quantity
	}

	return c.JSON(fiber.Map{
		"items": items,
		"total": total,
		"count": count,
	})
}

// HandleAddItem upserts a cart line by (product, weight).
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var in services.AddItemInput
	if err := c.BodyParser(&in); err != nil {
		log.Printf("Error parsing add-to-cart body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Missing required fields",
			"error":   err.Error(),
		})
	}

	session := middleware.CartSession(c)
	item, err := h.service.AddItem(session, in)
	if err != nil {
		log.Printf("Error adding to cart for %s: %v", session.OwnerID, err)
		status := fiber.StatusInternalServerError
		if errors.Is(err, services.ErrInvalidQuantity) ||
			errors.Is(err, services.ErrProductUnavailable) ||
			strings.Contains(err.Error(), "not found") {
			status = fiber.StatusBadRequest
		}
		return c.Status(status).JSON(fiber.Map{
			"message": "Could not add item to cart",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Item added to cart",
		"id":      item.ID,
	})
}

// HandleUpdateQuantity replaces a line's quantity.
func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	session := middleware.CartSession(c)
	if err := h.service.UpdateQuantity(session, c.Params("id"), body.Quantity); err != nil {
		if errors.Is(err, services.ErrInvalidQuantity) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Quantity must be at least 1",
			})
		}
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Cart item not found",
			})
		}
		log.Printf("Error updating quantity for %s: %v", session.OwnerID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update cart item",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{"message": "Cart item updated"})
}

// HandleRemoveItem removes a line. Removing an absent line succeeds.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	session := middleware.CartSession(c)
	if err := h.service.RemoveItem(session, c.Params("id")); err != nil {
		log.Printf("Error removing cart item for %s: %v", session.OwnerID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not remove cart item",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Item removed from cart"})
}

// HandleClearCart empties the session's cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	session := middleware.CartSession(c)
	if err := h.service.Clear(session); err != nil {
		log.Printf("Error clearing cart for %s: %v", session.OwnerID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not clear cart",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Cart cleared"})
}
