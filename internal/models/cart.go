package models

import "time"

// CartItem is a single line in a cart. Items are keyed by (ProductID, Weight):
// adding the same product in the same weight tier again increments the
// existing line instead of appending a new one.
type CartItem struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OwnerID     string    `json:"-" gorm:"index;type:varchar(64)"` // user id or guest session id
	ProductID   string    `json:"product_id" validate:"required"`
	ProductName string    `json:"product_name" validate:"required"`
	Weight      string    `json:"weight" validate:"required"`
	Price       float64   `json:"price" validate:"required,gt=0"`
	Quantity    int       `json:"quantity" validate:"gte=1"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"-"`
}

// Subtotal is the line total for this item.
func (i CartItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}
