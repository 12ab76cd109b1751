package models

import "time"

// Address is a saved delivery address. The address book is append-only:
// no update or delete operations are exposed.
type Address struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OwnerID      string    `json:"-" gorm:"index;type:varchar(36)"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	AddressLine1 string    `json:"addressLine1"`
	AddressLine2 string    `json:"addressLine2,omitempty"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	Pincode      string    `json:"pincode"`
	Landmark     string    `json:"landmark,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
