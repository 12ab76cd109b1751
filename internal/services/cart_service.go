package services

import (
	"fmt"
	"sync"

	"thulasibloom/internal/models"
	"thulasibloom/internal/repositories"
)

// CartSession identifies the owner of a cart and which store holds it.
// Authenticated sessions use the durable store; guest sessions use the
// ephemeral one. The two stores are never merged.
type CartSession struct {
	OwnerID       string
	Authenticated bool
}

// CartService handles business logic for carts. Persistence strategy is
// injected: one repository for durable authenticated carts and one for
// ephemeral guest carts, selected per session rather than ad hoc at call
// sites.
type CartService struct {
	userCarts  repositories.CartRepository
	guestCarts repositories.CartRepository
	products   repositories.ProductRepository
	// addMu serializes the find-then-create window in AddItem, so
	// concurrent adds of the same (product, weight) collapse into one line
	// with the summed quantity instead of duplicate lines.
	addMu sync.Mutex
}

// NewCartService creates a new CartService.
func NewCartService(userCarts, guestCarts repositories.CartRepository, products repositories.ProductRepository) *CartService {
	return &CartService{
		userCarts:  userCarts,
		guestCarts: guestCarts,
		products:   products,
	}
}

func (s *CartService) store(session CartSession) repositories.CartRepository {
	if session.Authenticated {
		return s.userCarts
	}
	return s.guestCarts
}

// AddItemInput is the request to add a product tier to the cart.
type AddItemInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Weight    string `json:"weight" validate:"required"`
	Quantity  int    `json:"quantity" validate:"omitempty,gte=1"`
	Image     string `json:"image"`
}

// AddItem upserts a cart line keyed by (productID, weight): an existing line
// has its quantity incremented, otherwise a new line is appended. The name
// and unit price come from the product record, never from the client.
func (s *CartService) AddItem(session CartSession, in AddItemInput) (*models.CartItem, error) {
	product, err := s.products.GetByID(in.ProductID)
	if err != nil {
		return nil, fmt.Errorf("product %s not found: %w", in.ProductID, err)
	}

	prices, err := product.Prices()
	if err != nil {
		return nil, fmt.Errorf("failed to read pricing for %s: %w", in.ProductID, err)
	}
	price, ok := prices[in.Weight]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no %s tier", ErrProductUnavailable, product.Name, in.Weight)
	}

	quantity := in.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	s.addMu.Lock()
	defer s.addMu.Unlock()

	store := s.store(session)
	existing, err := store.FindByProductWeight(session.OwnerID, in.ProductID, in.Weight)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if err := store.IncrementQuantity(session.OwnerID, existing.ID, quantity); err != nil {
			return nil, err
		}
		return store.GetByID(session.OwnerID, existing.ID)
	}

	image := in.Image
	if image == "" {
		image = product.Image
	}
	item := &models.CartItem{
		OwnerID:     session.OwnerID,
		ProductID:   in.ProductID,
		ProductName: product.Name,
		Weight:      in.Weight,
		Price:       price,
		Quantity:    quantity,
		Image:       image,
	}
	if err := store.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateQuantity replaces a line's quantity. Quantities below 1 are rejected
// and leave the cart unchanged.
func (s *CartService) UpdateQuantity(session CartSession, id string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	return s.store(session).UpdateQuantity(session.OwnerID, id, quantity)
}

// RemoveItem removes a line. Removing an absent line is a no-op.
func (s *CartService) RemoveItem(session CartSession, id string) error {
	return s.store(session).Delete(session.OwnerID, id)
}

// Clear empties the cart.
func (s *CartService) Clear(session CartSession) error {
	return s.store(session).Clear(session.OwnerID)
}

// Items returns all cart lines, newest first.
func (s *CartService) Items(session CartSession) ([]models.CartItem, error) {
	return s.store(session).ListByOwner(session.OwnerID)
}

// Total is the derived cart total: Σ price × quantity. It is never stored.
func (s *CartService) Total(session CartSession) (float64, error) {
	items, err := s.Items(session)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, item := range items {
		total += item.Subtotal()
	}
	return total, nil
}

// ItemCount is the sum of quantities across all lines.
func (s *CartService) ItemCount(session CartSession) (int, error) {
	items, err := s.Items(session)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return count, nil
}
