// Package validation holds the shared address rule table. The same rules
// back the /api/validate-address pre-check endpoint and the authoritative
// checks inside checkout and the address book, so the two can never drift
// apart. The error strings are part of the API contract.
package validation

import (
	"regexp"
	"strings"
)

var (
	pincodeRe = regexp.MustCompile(`^[0-9]{6}$`)
	phoneRe   = regexp.MustCompile(`^[0-9]{10}$`)
	emailRe   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// Loose phone shape used for notification contacts, where numbers may
	// carry country codes, spaces or dashes.
	contactPhoneRe = regexp.MustCompile(`^[\d\s\-\+\(\)]{10,}$`)
)

// AddressInput is the set of fields the rule table inspects.
type AddressInput struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"addressLine1"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
}

// ValidateAddress applies the rule table and returns a field→message map.
// An empty map means the address is valid.
func ValidateAddress(in AddressInput) map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(in.Name) == "" {
		errors["name"] = "Name is required"
	}

	phone := strings.TrimSpace(in.Phone)
	if phone == "" {
		errors["phone"] = "Phone number is required"
	} else if !phoneRe.MatchString(phone) {
		errors["phone"] = "Phone number must be 10 digits"
	}

	if strings.TrimSpace(in.AddressLine1) == "" {
		errors["addressLine1"] = "Address Line 1 is required"
	}

	if strings.TrimSpace(in.City) == "" {
		errors["city"] = "City is required"
	}

	if strings.TrimSpace(in.State) == "" {
		errors["state"] = "Please select a state"
	}

	pincode := strings.TrimSpace(in.Pincode)
	if pincode == "" {
		errors["pincode"] = "Pincode is required"
	} else if !pincodeRe.MatchString(pincode) {
		errors["pincode"] = "Pincode must be 6 digits"
	}

	return errors
}

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// ValidContactPhone reports whether s looks like a dialable phone number,
// allowing country codes and separators.
func ValidContactPhone(s string) bool {
	return contactPhoneRe.MatchString(s)
}
