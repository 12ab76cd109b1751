package validation_test

import (
	"testing"

	"thulasibloom/internal/validation"

	"github.com/stretchr/testify/assert"
)

func validInput() validation.AddressInput {
	return validation.AddressInput{
		Name:         "Priya S",
		Phone:        "9876543210",
		AddressLine1: "12 Gandhi Street",
		City:         "Chennai",
		State:        "Tamil Nadu",
		Pincode:      "600001",
	}
}

func TestValidateAddress_Valid(t *testing.T) {
	errs := validation.ValidateAddress(validInput())
	assert.Empty(t, errs)
}

func TestValidateAddress_RequiredFields(t *testing.T) {
	errs := validation.ValidateAddress(validation.AddressInput{})
	assert.Equal(t, "Name is required", errs["name"])
	assert.Equal(t, "Phone number is required", errs["phone"])
	assert.Equal(t, "Address Line 1 is required", errs["addressLine1"])
	assert.Equal(t, "City is required", errs["city"])
	assert.Equal(t, "Please select a state", errs["state"])
	assert.Equal(t, "Pincode is required", errs["pincode"])
}

func TestValidateAddress_WhitespaceOnlyIsEmpty(t *testing.T) {
	in := validInput()
	in.City = "   "
	errs := validation.ValidateAddress(in)
	assert.Equal(t, "City is required", errs["city"])
}

func TestValidateAddress_ShortPincode(t *testing.T) {
	in := validInput()
	in.Pincode = "12345"
	errs := validation.ValidateAddress(in)
	assert.Equal(t, "Pincode must be 6 digits", errs["pincode"])
	assert.Len(t, errs, 1)
}

func TestValidateAddress_NonNumericPincode(t *testing.T) {
	in := validInput()
	in.Pincode = "60000a"
	errs := validation.ValidateAddress(in)
	assert.Equal(t, "Pincode must be 6 digits", errs["pincode"])
}

func TestValidateAddress_PhoneMustBeTenDigits(t *testing.T) {
	for _, phone := range []string{"12345", "98765432101", "98765-4321"} {
		in := validInput()
		in.Phone = phone
		errs := validation.ValidateAddress(in)
		assert.Equal(t, "Phone number must be 10 digits", errs["phone"], "phone %q", phone)
	}
}

func TestValidEmail(t *testing.T) {
	assert.True(t, validation.ValidEmail("user@example.com"))
	assert.False(t, validation.ValidEmail("user@example"))
	assert.False(t, validation.ValidEmail("not an email"))
}

func TestValidContactPhone(t *testing.T) {
	assert.True(t, validation.ValidContactPhone("+91 98765 43210"))
	assert.True(t, validation.ValidContactPhone("9876543210"))
	assert.False(t, validation.ValidContactPhone("12345"))
	assert.False(t, validation.ValidContactPhone("call me maybe"))
}
