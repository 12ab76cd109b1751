package services

import (
	"thulasibloom/internal/models"
	"thulasibloom/internal/repositories"
	"thulasibloom/internal/validation"
)

// AddressService handles business logic for the address book.
type AddressService struct {
	repo repositories.AddressRepository
}

// NewAddressService creates a new AddressService.
func NewAddressService(repo repositories.AddressRepository) *AddressService {
	return &AddressService{
		repo: repo,
	}
}

// SaveAddressInput is the request to save a new delivery address.
type SaveAddressInput struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
	Landmark     string `json:"landmark"`
}

// Save validates the address against the shared rule table and persists it
// for the owner, returning the stored record with its assigned id.
func (s *AddressService) Save(ownerID string, in SaveAddressInput) (*models.Address, error) {
	fieldErrors := validation.ValidateAddress(validation.AddressInput{
		Name:         in.Name,
		Phone:        in.Phone,
		AddressLine1: in.AddressLine1,
		City:         in.City,
		State:        in.State,
		Pincode:      in.Pincode,
	})
	if len(fieldErrors) > 0 {
		return nil, &AddressValidationError{Fields: fieldErrors}
	}

	address := &models.Address{
		OwnerID:      ownerID,
		Name:         in.Name,
		Phone:        in.Phone,
		AddressLine1: in.AddressLine1,
		AddressLine2: in.AddressLine2,
		City:         in.City,
		State:        in.State,
		Pincode:      in.Pincode,
		Landmark:     in.Landmark,
	}
	if err := s.repo.Create(address); err != nil {
		return nil, err
	}
	return address, nil
}

// ListForOwner returns all saved addresses for an identity, newest first.
func (s *AddressService) ListForOwner(ownerID string) ([]models.Address, error) {
	return s.repo.ListByOwner(ownerID)
}

// GetForOwner returns a single saved address by id, or nil when the owner
// has no such address.
func (s *AddressService) GetForOwner(ownerID, id string) (*models.Address, error) {
	addresses, err := s.repo.ListByOwner(ownerID)
	if err != nil {
		return nil, err
	}
	for _, a := range addresses {
		if a.ID == id {
			copied := a
			return &copied, nil
		}
	}
	return nil, nil
}
