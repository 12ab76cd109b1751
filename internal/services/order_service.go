package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"thulasibloom/internal/catalog"
	"thulasibloom/internal/models"
	"thulasibloom/internal/repositories"
	"thulasibloom/internal/validation"
	"thulasibloom/pkg/payload"
)

// OrderService is the order/notification log: append-only persistence of
// placed orders and back-in-stock notification requests.
type OrderService struct {
	orderRepo  repositories.OrderRepository
	notifyRepo repositories.NotificationRepository
	codec      *payload.Codec
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, notifyRepo repositories.NotificationRepository, codec *payload.Codec) *OrderService {
	return &OrderService{
		orderRepo:  orderRepo,
		notifyRepo: notifyRepo,
		codec:      codec,
	}
}

// EncryptedCustomer is customer PII as it arrives on the wire: name in the
// clear, contact fields obfuscated with the shared key.
type EncryptedCustomer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// OrderRequest is a checkout submission as received from the client.
type OrderRequest struct {
	Customer      EncryptedCustomer  `json:"customer"`
	Items         []models.OrderItem `json:"items"`
	Total         float64            `json:"total"`
	PaymentMethod string             `json:"paymentMethod"`
	PaymentID     string             `json:"paymentId"`
}

// RecordOrder decrypts the customer payload, validates the request and
// persists the order with a frozen snapshot of its items. The row is written
// exactly once; any rejection writes nothing.
func (s *OrderService) RecordOrder(req OrderRequest) (*models.Order, error) {
	email, err := s.codec.Decrypt(req.Customer.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryptFailed, err)
	}
	phone, err := s.codec.Decrypt(req.Customer.Phone)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryptFailed, err)
	}
	address, err := s.codec.Decrypt(req.Customer.Address)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryptFailed, err)
	}

	name := strings.TrimSpace(req.Customer.Name)
	if name == "" || email == "" || phone == "" || address == "" {
		return nil, ErrMissingCustomer
	}
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = models.PaymentCOD
	}

	order := &models.Order{
		CustomerName:    name,
		CustomerEmail:   email,
		CustomerPhone:   phone,
		CustomerAddress: address,
		TotalAmount:     req.Total,
		PaymentMethod:   paymentMethod,
		PaymentID:       req.PaymentID,
		Status:          "pending",
	}
	if err := order.SetItems(req.Items); err != nil {
		return nil, fmt.Errorf("failed to snapshot order items: %w", err)
	}

	if err := s.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}
	log.Printf("Recorded order %s (%s, total %.2f)", order.ID, order.PaymentMethod, order.TotalAmount)
	return order, nil
}

// GetAllOrders retrieves all orders, newest first.
func (s *OrderService) GetAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// UpdateOrderStatus updates the status of an existing order.
func (s *OrderService) UpdateOrderStatus(id string, status string) error {
	validStatuses := map[string]bool{"pending": true, "processing": true, "shipped": true, "delivered": true, "cancelled": true}
	if _, ok := validStatuses[status]; !ok {
		return fmt.Errorf("invalid order status: %s", status)
	}

	if err := s.orderRepo.UpdateStatus(id, status); err != nil {
		return fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}
	return nil
}

// NotificationRequest is a back-in-stock notification capture.
type NotificationRequest struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
}

// RecordNotification persists a notification request. The product must
// exist in the catalog and at least one of email/phone must be present and
// well formed.
func (s *OrderService) RecordNotification(req NotificationRequest) (*models.Notification, error) {
	if req.ProductID == "" || req.ProductName == "" {
		return nil, errors.New("product ID and name are required")
	}
	if catalog.Lookup(req.ProductID) == nil {
		return nil, fmt.Errorf("%w: unknown product %s", ErrInvalidRequest, req.ProductID)
	}
	if req.Email == "" && req.Phone == "" {
		return nil, ErrInvalidRequest
	}
	if req.Email != "" && !validation.ValidEmail(req.Email) {
		return nil, fmt.Errorf("%w: invalid email format", ErrInvalidRequest)
	}
	if req.Phone != "" && !validation.ValidContactPhone(req.Phone) {
		return nil, fmt.Errorf("%w: invalid phone format", ErrInvalidRequest)
	}

	notification := &models.Notification{
		ProductID:   req.ProductID,
		ProductName: req.ProductName,
		Email:       req.Email,
		Phone:       req.Phone,
	}
	if err := s.notifyRepo.Create(notification); err != nil {
		return nil, fmt.Errorf("failed to save notification request: %w", err)
	}
	return notification, nil
}

// GetAllNotifications retrieves all notification requests, newest first.
func (s *OrderService) GetAllNotifications() ([]models.Notification, error) {
	return s.notifyRepo.GetAll()
}
