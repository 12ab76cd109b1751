package models

import (
	"encoding/json"

	"gorm.io/gorm"
)

// PriceList maps a weight tier (e.g. "250g") to its price in rupees.
type PriceList map[string]float64

// Product represents a product in the store. A product with an empty
// price list is "coming soon" and can only collect notification requests.
type Product struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(64)" validate:"required"`
	Name        string `json:"name" validate:"required,min=3,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
	Ingredients string `json:"ingredients"` // comma-separated display list
	Benefits    string `json:"benefits"`
	Pricing     string `json:"-" gorm:"column:pricing"` // JSON-encoded PriceList
	Image       string `json:"image"`
	Badge       string `json:"badge"`
	gorm.Model  `json:"-"`
}

// Prices decodes the stored pricing column.
func (p *Product) Prices() (PriceList, error) {
	prices := PriceList{}
	if p.Pricing == "" {
		return prices, nil
	}
	if err := json.Unmarshal([]byte(p.Pricing), &prices); err != nil {
		return nil, err
	}
	return prices, nil
}

// SetPrices encodes the price list into the stored pricing column.
func (p *Product) SetPrices(prices PriceList) error {
	raw, err := json.Marshal(prices)
	if err != nil {
		return err
	}
	p.Pricing = string(raw)
	return nil
}

// Available reports whether the product can be added to a cart.
func (p *Product) Available() bool {
	prices, err := p.Prices()
	return err == nil && len(prices) > 0
}
