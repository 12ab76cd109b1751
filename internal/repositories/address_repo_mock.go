package repositories

import (
	"sync"
	"time"

	"thulasibloom/internal/models"

	"github.com/google/uuid"
)

// MockAddressRepository is an in-memory implementation of AddressRepository.
type MockAddressRepository struct {
	addresses map[string][]models.Address
	mu        sync.RWMutex
}

// NewMockAddressRepository creates a new instance of MockAddressRepository.
func NewMockAddressRepository() *MockAddressRepository {
	return &MockAddressRepository{
		addresses: make(map[string][]models.Address),
	}
}

// Create appends a new address for its owner.
func (r *MockAddressRepository) Create(address *models.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if address.ID == "" {
		address.ID = uuid.New().String()
	}
	address.CreatedAt = time.Now()
	r.addresses[address.OwnerID] = append(r.addresses[address.OwnerID], *address)
	return nil
}

// ListByOwner returns all addresses for an owner, newest first.
func (r *MockAddressRepository) ListByOwner(ownerID string) ([]models.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	saved := r.addresses[ownerID]
	out := make([]models.Address, len(saved))
	for i, a := range saved {
		out[len(saved)-1-i] = a
	}
	return out, nil
}
