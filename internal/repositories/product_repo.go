package repositories

import "thulasibloom/internal/models"

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	// Upsert creates the product or refreshes it from the catalog definition.
	Upsert(product *models.Product) error
}
