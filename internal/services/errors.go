package services

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across services. Handlers map these to HTTP status
// codes; callers test them with errors.Is.
var (
	// ErrInvalidQuantity rejects cart quantity updates below 1. An item is
	// removed, never stored with quantity zero.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")

	// ErrEmptyOrder rejects order submissions with no items.
	ErrEmptyOrder = errors.New("order must contain items")

	// ErrMissingCustomer rejects orders missing a required customer field.
	ErrMissingCustomer = errors.New("all customer details are required")

	// ErrDecryptFailed rejects orders whose obfuscated PII payload cannot be
	// decrypted with the shared key.
	ErrDecryptFailed = errors.New("invalid encrypted data")

	// ErrInvalidRequest rejects notification requests with no usable
	// contact channel or an unknown product.
	ErrInvalidRequest = errors.New("email or phone number is required")

	// ErrProductUnavailable rejects cart adds for products without pricing.
	ErrProductUnavailable = errors.New("product is not available for purchase")
)

// AddressValidationError carries the per-field messages from the address
// rule table. It is returned by any path that refuses an invalid address.
type AddressValidationError struct {
	Fields map[string]string
}

func (e *AddressValidationError) Error() string {
	return fmt.Sprintf("address validation failed: %d invalid field(s)", len(e.Fields))
}
