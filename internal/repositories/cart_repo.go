package repositories

import "thulasibloom/internal/models"

// CartRepository defines the interface for cart data access. Every operation
// is scoped to an owner: a user id for authenticated carts or a guest
// session id for ephemeral ones. The same interface backs both the durable
// GORM store and the in-memory guest store, so services never branch on
// authentication state.
type CartRepository interface {
	ListByOwner(ownerID string) ([]models.CartItem, error)
	GetByID(ownerID, id string) (*models.CartItem, error)
	// FindByProductWeight locates the line keyed by (productID, weight),
	// returning nil when no such line exists.
	FindByProductWeight(ownerID, productID, weight string) (*models.CartItem, error)
	Create(item *models.CartItem) error
	// IncrementQuantity adds delta to the line's quantity atomically, so
	// concurrent adds from the same session never lose updates.
	IncrementQuantity(ownerID, id string, delta int) error
	UpdateQuantity(ownerID, id string, quantity int) error
	// Delete removes the line; deleting an absent line is not an error.
	Delete(ownerID, id string) error
	Clear(ownerID string) error
}
