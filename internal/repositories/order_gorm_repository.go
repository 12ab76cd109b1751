package repositories

import (
	"fmt"

	"thulasibloom/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// GetAll retrieves all orders, newest first.
func (r *GORMOrderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get all orders: %w", err)
	}
	return orders, nil
}

// GetByID retrieves a single order by its ID.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// Create persists a new order.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// UpdateStatus updates the status of an existing order.
func (r *GORMOrderRepository) UpdateStatus(id string, status string) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update order status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %s not found for status update", id)
	}
	return nil
}

// GORMNotificationRepository is a GORM implementation of NotificationRepository.
type GORMNotificationRepository struct {
	db *gorm.DB
}

// NewGORMNotificationRepository creates a new instance of GORMNotificationRepository.
func NewGORMNotificationRepository(db *gorm.DB) *GORMNotificationRepository {
	return &GORMNotificationRepository{
		db: db,
	}
}

// GetAll retrieves all notification requests, newest first.
func (r *GORMNotificationRepository) GetAll() ([]models.Notification, error) {
	var notifications []models.Notification
	if err := r.db.Order("created_at DESC").Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}
	return notifications, nil
}

// Create persists a new notification request.
func (r *GORMNotificationRepository) Create(notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	if err := r.db.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}
