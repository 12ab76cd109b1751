package models

import (
	"encoding/json"
	"time"
)

// Payment channels accepted at checkout.
const (
	PaymentCOD      = "cod"
	PaymentOnline   = "online"
	PaymentWhatsApp = "whatsapp"
	PaymentEmail    = "email"
)

// OrderItem is a frozen snapshot of a cart line at submission time.
// It is a copy, never a live reference to the cart.
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Weight    string  `json:"weight"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Order represents a placed customer order. Orders are created exactly once
// per successful checkout submission and never mutated afterwards except for
// status transitions driven by back-office processes.
type Order struct {
	ID              string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CustomerName    string    `json:"customer_name"`
	CustomerEmail   string    `json:"customer_email"`
	CustomerPhone   string    `json:"customer_phone"`
	CustomerAddress string    `json:"customer_address"`
	TotalAmount     float64   `json:"total_amount"`
	OrderItems      string    `json:"-" gorm:"column:order_items"` // JSON snapshot
	PaymentMethod   string    `json:"payment_method" gorm:"default:cod"`
	PaymentID       string    `json:"payment_id,omitempty"`
	Status          string    `json:"status" gorm:"default:pending"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"-"`
}

// Items decodes the frozen item snapshot.
func (o *Order) Items() ([]OrderItem, error) {
	var items []OrderItem
	if o.OrderItems == "" {
		return items, nil
	}
	if err := json.Unmarshal([]byte(o.OrderItems), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// SetItems encodes the frozen item snapshot.
func (o *Order) SetItems(items []OrderItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	o.OrderItems = string(raw)
	return nil
}
