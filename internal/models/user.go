package models

import "gorm.io/gorm"

// User represents a registered customer.
type User struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name       string `json:"name" validate:"required,min=2,max=100"`
	Email      string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Phone      string `json:"phone" validate:"required,min=10"`
	Password   string `gorm:"type:varchar(255)" validate:"required,min=6"` // No json tag for security
	gorm.Model `json:"-"`
}
