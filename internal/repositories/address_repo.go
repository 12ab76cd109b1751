package repositories

import "thulasibloom/internal/models"

// AddressRepository defines the interface for address book data access.
// The address book is append-only: no update or delete.
type AddressRepository interface {
	Create(address *models.Address) error
	ListByOwner(ownerID string) ([]models.Address, error)
}
