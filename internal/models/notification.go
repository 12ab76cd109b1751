package models

import "time"

// Notification is a back-in-stock notification request. At least one of
// Email/Phone must be present.
type Notification struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
