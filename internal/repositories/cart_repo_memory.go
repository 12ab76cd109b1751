package repositories

import (
	"fmt"
	"sync"
	"time"

	"thulasibloom/internal/models"

	"github.com/google/uuid"
)

// MemoryCartRepository is an in-memory implementation of CartRepository used
// for guest sessions. Guest carts are ephemeral: they live only as long as
// the session and are dropped by PurgeIdle once the session goes quiet.
type MemoryCartRepository struct {
	carts   map[string][]models.CartItem
	touched map[string]time.Time
	mu      sync.Mutex
}

// NewMemoryCartRepository creates a new instance of MemoryCartRepository.
func NewMemoryCartRepository() *MemoryCartRepository {
	return &MemoryCartRepository{
		carts:   make(map[string][]models.CartItem),
		touched: make(map[string]time.Time),
	}
}

// ListByOwner returns all cart lines for a session, newest first.
func (r *MemoryCartRepository) ListByOwner(ownerID string) ([]models.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touched[ownerID] = time.Now()

	items := r.carts[ownerID]
	out := make([]models.CartItem, len(items))
	for i, item := range items {
		out[len(items)-1-i] = item
	}
	return out, nil
}

// GetByID returns a single cart line by its ID.
func (r *MemoryCartRepository) GetByID(ownerID, id string) (*models.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touched[ownerID] = time.Now()

	for _, item := range r.carts[ownerID] {
		if item.ID == id {
			copied := item
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("cart item with ID %s not found", id)
}

// FindByProductWeight locates the line keyed by (productID, weight).
func (r *MemoryCartRepository) FindByProductWeight(ownerID, productID, weight string) (*models.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range r.carts[ownerID] {
		if item.ProductID == productID && item.Weight == weight {
			copied := item
			return &copied, nil
		}
	}
	return nil, nil
}

// Create appends a new cart line.
func (r *MemoryCartRepository) Create(item *models.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	item.CreatedAt = time.Now()
	r.carts[item.OwnerID] = append(r.carts[item.OwnerID], *item)
	r.touched[item.OwnerID] = time.Now()
	return nil
}

// IncrementQuantity adds delta to a line's quantity under the store mutex.
func (r *MemoryCartRepository) IncrementQuantity(ownerID, id string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := r.carts[ownerID]
	for i := range items {
		if items[i].ID == id {
			items[i].Quantity += delta
			r.touched[ownerID] = time.Now()
			return nil
		}
	}
	return fmt.Errorf("cart item with ID %s not found", id)
}

// UpdateQuantity replaces a line's quantity.
func (r *MemoryCartRepository) UpdateQuantity(ownerID, id string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := r.carts[ownerID]
	for i := range items {
		if items[i].ID == id {
			items[i].Quantity = quantity
			r.touched[ownerID] = time.Now()
			return nil
		}
	}
	return fmt.Errorf("cart item with ID %s not found", id)
}

// Delete removes a cart line. Removing an absent line is a no-op.
func (r *MemoryCartRepository) Delete(ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := r.carts[ownerID]
	for i := range items {
		if items[i].ID == id {
			r.carts[ownerID] = append(items[:i], items[i+1:]...)
			break
		}
	}
	r.touched[ownerID] = time.Now()
	return nil
}

// Clear empties the session's cart.
func (r *MemoryCartRepository) Clear(ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, ownerID)
	delete(r.touched, ownerID)
	return nil
}

// PurgeIdle drops carts untouched for longer than maxIdle and returns how
// many sessions were evicted.
func (r *MemoryCartRepository) PurgeIdle(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	cutoff := time.Now().Add(-maxIdle)
	for owner, last := range r.touched {
		if last.Before(cutoff) {
			delete(r.carts, owner)
			delete(r.touched, owner)
			evicted++
		}
	}
	return evicted
}
