package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"thulasibloom/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
type MockOrderRepository struct {
	orders map[string]models.Order
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
	}
}

// GetAll returns all orders, newest first.
func (r *MockOrderRepository) GetAll() ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		orderList = append(orderList, order)
	}
	sort.Slice(orderList, func(i, j int) bool {
		return orderList[i].CreatedAt.After(orderList[j].CreatedAt)
	})
	return orderList, nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with ID %s not found", id)
	}
	return &order, nil
}

// Create adds a new order.
func (r *MockOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	r.orders[order.ID] = *order
	return nil
}

// UpdateStatus updates the status of an existing order.
func (r *MockOrderRepository) UpdateStatus(id string, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order with ID %s not found for status update", id)
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}

// MockNotificationRepository is an in-memory implementation of
// NotificationRepository.
type MockNotificationRepository struct {
	notifications []models.Notification
	mu            sync.RWMutex
}

// NewMockNotificationRepository creates a new instance of MockNotificationRepository.
func NewMockNotificationRepository() *MockNotificationRepository {
	return &MockNotificationRepository{}
}

// GetAll returns all notification requests, newest first.
func (r *MockNotificationRepository) GetAll() ([]models.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Notification, len(r.notifications))
	for i, n := range r.notifications {
		out[len(r.notifications)-1-i] = n
	}
	return out, nil
}

// Create appends a new notification request.
func (r *MockNotificationRepository) Create(notification *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	notification.CreatedAt = time.Now()
	r.notifications = append(r.notifications, *notification)
	return nil
}
