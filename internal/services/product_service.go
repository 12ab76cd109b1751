package services

import (
	"fmt"

	"thulasibloom/internal/catalog"
	"thulasibloom/internal/models"
	"thulasibloom/internal/repositories"
)

// ProductService handles business logic related to the catalog.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// SeedCatalog loads the static catalog definitions into the repository,
// refreshing any product that already exists.
func (s *ProductService) SeedCatalog() error {
	for _, product := range catalog.Products() {
		p := product
		if err := s.repo.Upsert(&p); err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.ID, err)
		}
	}
	return nil
}
