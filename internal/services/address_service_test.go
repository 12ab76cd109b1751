package services_test

import (
	"testing"

	"thulasibloom/internal/repositories"
	"thulasibloom/internal/services"

	"github.com/stretchr/testify/assert"
)

func validAddress() services.SaveAddressInput {
	return services.SaveAddressInput{
		Name:         "Priya S",
		Phone:        "9876543210",
		AddressLine1: "12 Gandhi Street",
		AddressLine2: "Near the temple",
		City:         "Chennai",
		State:        "Tamil Nadu",
		Pincode:      "600001",
		Landmark:     "Opposite the park",
	}
}

func TestAddressService_SaveAssignsID(t *testing.T) {
	svc := services.NewAddressService(repositories.NewMockAddressRepository())

	address, err := svc.Save("user-1", validAddress())
	assert.NoError(t, err)
	assert.NotEmpty(t, address.ID)
	assert.Equal(t, "user-1", address.OwnerID)
	assert.Equal(t, "600001", address.Pincode)
}

func TestAddressService_SaveRejectsInvalidFields(t *testing.T) {
	svc := services.NewAddressService(repositories.NewMockAddressRepository())

	in := validAddress()
	in.Pincode = "12345"
	in.Phone = "98765"
	in.State = ""

	_, err := svc.Save("user-1", in)
	var vErr *services.AddressValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Pincode must be 6 digits", vErr.Fields["pincode"])
	assert.Equal(t, "Phone number must be 10 digits", vErr.Fields["phone"])
	assert.Equal(t, "Please select a state", vErr.Fields["state"])

	// Nothing is stored for a rejected address.
	saved, listErr := svc.ListForOwner("user-1")
	assert.NoError(t, listErr)
	assert.Empty(t, saved)
}

func TestAddressService_ListForOwnerNewestFirst(t *testing.T) {
	svc := services.NewAddressService(repositories.NewMockAddressRepository())

	first := validAddress()
	second := validAddress()
	second.AddressLine1 = "45 Beach Road"

	_, err := svc.Save("user-1", first)
	assert.NoError(t, err)
	_, err = svc.Save("user-1", second)
	assert.NoError(t, err)

	saved, err := svc.ListForOwner("user-1")
	assert.NoError(t, err)
	assert.Len(t, saved, 2)
	assert.Equal(t, "45 Beach Road", saved[0].AddressLine1)
}

func TestAddressService_GetForOwnerScopesByOwner(t *testing.T) {
	svc := services.NewAddressService(repositories.NewMockAddressRepository())

	address, err := svc.Save("user-1", validAddress())
	assert.NoError(t, err)

	found, err := svc.GetForOwner("user-1", address.ID)
	assert.NoError(t, err)
	assert.NotNil(t, found)
	assert.Equal(t, address.ID, found.ID)

	// Another owner cannot resolve the same id.
	other, err := svc.GetForOwner("user-2", address.ID)
	assert.NoError(t, err)
	assert.Nil(t, other)
}
