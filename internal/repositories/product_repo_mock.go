package repositories

import (
	"fmt"
	"sort"
	"sync"

	"thulasibloom/internal/models"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
type MockProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

// GetAll returns all products.
func (r *MockProductRepository) GetAll() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, product := range r.products {
		productList = append(productList, product)
	}
	sort.Slice(productList, func(i, j int) bool {
		return productList[i].ID < productList[j].ID
	})
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %s not found", id)
	}
	return &product, nil
}

// Upsert creates or replaces a product.
func (r *MockProductRepository) Upsert(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.products[product.ID] = *product
	return nil
}
