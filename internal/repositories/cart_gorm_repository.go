package repositories

import (
	"fmt"

	"thulasibloom/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCartRepository is a GORM implementation of CartRepository used for
// authenticated carts, which survive across sessions.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// ListByOwner retrieves all cart lines for an owner, newest first.
func (r *GORMCartRepository) ListByOwner(ownerID string) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	return items, nil
}

// GetByID retrieves a single cart line by its ID.
func (r *GORMCartRepository) GetByID(ownerID, id string) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.First(&item, "owner_id = ? AND id = ?", ownerID, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("cart item with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get cart item by ID %s: %w", id, err)
	}
	return &item, nil
}

// FindByProductWeight locates the line keyed by (productID, weight).
func (r *GORMCartRepository) FindByProductWeight(ownerID, productID, weight string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.First(&item, "owner_id = ? AND product_id = ? AND weight = ?", ownerID, productID, weight).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up cart item: %w", err)
	}
	return &item, nil
}

// Create inserts a new cart line.
func (r *GORMCartRepository) Create(item *models.CartItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := r.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to create cart item: %w", err)
	}
	return nil
}

// IncrementQuantity adds delta to a line's quantity with a single UPDATE, so
// concurrent increments serialize at the database.
func (r *GORMCartRepository) IncrementQuantity(ownerID, id string, delta int) error {
	res := r.db.Model(&models.CartItem{}).
		Where("owner_id = ? AND id = ?", ownerID, id).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", delta))
	if res.Error != nil {
		return fmt.Errorf("failed to increment quantity: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item with ID %s not found", id)
	}
	return nil
}

// UpdateQuantity replaces a line's quantity.
func (r *GORMCartRepository) UpdateQuantity(ownerID, id string, quantity int) error {
	res := r.db.Model(&models.CartItem{}).
		Where("owner_id = ? AND id = ?", ownerID, id).
		UpdateColumn("quantity", quantity)
	if res.Error != nil {
		return fmt.Errorf("failed to update quantity: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item with ID %s not found", id)
	}
	return nil
}

// Delete removes a cart line. Removing an absent line is a no-op.
func (r *GORMCartRepository) Delete(ownerID, id string) error {
	if err := r.db.Delete(&models.CartItem{}, "owner_id = ? AND id = ?", ownerID, id).Error; err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	return nil
}

// Clear empties the owner's cart.
func (r *GORMCartRepository) Clear(ownerID string) error {
	if err := r.db.Delete(&models.CartItem{}, "owner_id = ?", ownerID).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
