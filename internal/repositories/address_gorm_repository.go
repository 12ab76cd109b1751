package repositories

import (
	"fmt"

	"thulasibloom/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMAddressRepository is a GORM implementation of AddressRepository.
type GORMAddressRepository struct {
	db *gorm.DB
}

// NewGORMAddressRepository creates a new instance of GORMAddressRepository.
func NewGORMAddressRepository(db *gorm.DB) *GORMAddressRepository {
	return &GORMAddressRepository{
		db: db,
	}
}

// Create persists a new address.
func (r *GORMAddressRepository) Create(address *models.Address) error {
	if address.ID == "" {
		address.ID = uuid.New().String()
	}
	if err := r.db.Create(address).Error; err != nil {
		return fmt.Errorf("failed to create address: %w", err)
	}
	return nil
}

// ListByOwner retrieves all addresses saved by an owner, newest first.
func (r *GORMAddressRepository) ListByOwner(ownerID string) ([]models.Address, error) {
	var addresses []models.Address
	if err := r.db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&addresses).Error; err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	return addresses, nil
}
