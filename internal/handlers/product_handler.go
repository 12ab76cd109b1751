package handlers

import (
	"log"
	"strings"

	"thulasibloom/internal/models"
	"thulasibloom/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the catalog.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
}

// HandleGetProducts retrieves the full catalog.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		log.Printf("Error getting all products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
			"error":   err.Error(),
		})
	}

	out := make([]fiber.Map, 0, len(products))
	for i := range products {
		out = append(out, productView(&products[i]))
	}
	return c.JSON(out)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	productID := c.Params("id")
	product, err := h.service.GetProductByID(productID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		log.Printf("Error getting product %s: %v", productID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve product",
			"error":   err.Error(),
		})
	}
	return c.JSON(productView(product))
}

func productView(p *models.Product) fiber.Map {
	prices, err := p.Prices()
	if err != nil {
		log.Printf("Bad pricing payload for product %s: %v", p.ID, err)
		prices = models.PriceList{}
	}
	return fiber.Map{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"ingredients": p.Ingredients,
		"benefits":    p.Benefits,
		"pricing":     prices,
		"image":       p.Image,
		"badge":       p.Badge,
		"available":   len(prices) > 0,
	}
}
