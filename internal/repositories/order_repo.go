package repositories

import "thulasibloom/internal/models"

// OrderRepository defines the interface for order data access. Orders are
// append-only except for status transitions.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	Create(order *models.Order) error
	UpdateStatus(id string, status string) error
}

// NotificationRepository defines the interface for back-in-stock
// notification requests. Append-only.
type NotificationRepository interface {
	GetAll() ([]models.Notification, error)
	Create(notification *models.Notification) error
}
