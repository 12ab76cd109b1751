package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"thulasibloom/internal/models"
	"thulasibloom/internal/validation"
	"thulasibloom/pkg/payload"
	"thulasibloom/pkg/whatsapp"
)

// CheckoutState is the state of a checkout submission. A submission starts
// in Collecting, moves to Submitting once the guards pass, and ends in
// Succeeded (terminal) or Failed (retryable, cart untouched).
type CheckoutState string

const (
	StateCollecting CheckoutState = "collecting"
	StateSubmitting CheckoutState = "submitting"
	StateSucceeded  CheckoutState = "succeeded"
	StateFailed     CheckoutState = "failed"
)

// ErrTransport marks store/gateway failures on the cod/online paths. The
// submission is retryable and the cart is preserved.
var ErrTransport = errors.New("order submission failed")

// ErrPaymentIncomplete rejects online submissions without a gateway payment
// reference: the gateway was dismissed or failed, so no order is created.
var ErrPaymentIncomplete = errors.New("payment was not completed")

// CheckoutService orchestrates order submission across the four channels.
// The cart is cleared if and only if the order was durably recorded or
// handed off to an external channel.
type CheckoutService struct {
	cart      *CartService
	orders    *OrderService
	addresses *AddressService
	email     *EmailService
	codec     *payload.Codec
	waNumber  string
}

// NewCheckoutService creates a new CheckoutService. waNumber is the store's
// WhatsApp number for deep-link handoffs.
func NewCheckoutService(cart *CartService, orders *OrderService, addresses *AddressService,
	email *EmailService, codec *payload.Codec, waNumber string) *CheckoutService {
	return &CheckoutService{
		cart:      cart,
		orders:    orders,
		addresses: addresses,
		email:     email,
		codec:     codec,
		waNumber:  waNumber,
	}
}

// CheckoutRequest is a checkout submission. The delivery address comes from
// exactly one source: a saved address book entry (AddressID, authenticated
// sessions only), a freshly entered structured address (Address), or the
// free-form encrypted Customer.Address field.
type CheckoutRequest struct {
	Channel   string            `json:"channel"`
	Customer  EncryptedCustomer `json:"customer"`
	AddressID string            `json:"addressId"`
	Address   *SaveAddressInput `json:"address"`
	PaymentID string            `json:"paymentId"`
}

// CheckoutResult reports the outcome of a submission.
type CheckoutResult struct {
	State       CheckoutState     `json:"state"`
	OrderID     string            `json:"orderId,omitempty"`
	EmailJobID  string            `json:"emailJobId,omitempty"`
	WhatsAppURL string            `json:"whatsappUrl,omitempty"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
	Retryable   bool              `json:"retryable,omitempty"`
	Message     string            `json:"message,omitempty"`
}

// resolvedAddress is the concrete delivery address after guard checks, both
// as a single display string and as its parts (when structured).
type resolvedAddress struct {
	display string
	parts   *SaveAddressInput
}

// Submit drives one checkout submission through the state machine.
// Guard failures return a Collecting result with field errors and no side
// effects. Transport failures on cod/online return a Failed result with the
// cart untouched. Success clears the cart exactly once and is terminal.
func (s *CheckoutService) Submit(session CartSession, req CheckoutRequest) (*CheckoutResult, error) {
	// --- Collecting: gather and guard ---
	items, err := s.cart.Items(session)
	if err != nil {
		return &CheckoutResult{State: StateFailed, Retryable: true}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if len(items) == 0 {
		return &CheckoutResult{State: StateCollecting, Message: ErrEmptyOrder.Error()}, ErrEmptyOrder
	}

	customerEmail, err := s.codec.Decrypt(req.Customer.Email)
	if err != nil {
		return &CheckoutResult{State: StateCollecting, Message: ErrDecryptFailed.Error()},
			fmt.Errorf("%w: %v", ErrDecryptFailed, err)
	}
	customerPhone, err := s.codec.Decrypt(req.Customer.Phone)
	if err != nil {
		return &CheckoutResult{State: StateCollecting, Message: ErrDecryptFailed.Error()},
			fmt.Errorf("%w: %v", ErrDecryptFailed, err)
	}

	name := strings.TrimSpace(req.Customer.Name)
	if name == "" || strings.TrimSpace(customerEmail) == "" || strings.TrimSpace(customerPhone) == "" {
		return &CheckoutResult{State: StateCollecting, Message: ErrMissingCustomer.Error()}, ErrMissingCustomer
	}

	address, fieldErrors, err := s.resolveAddress(session, req)
	if err != nil {
		return nil, err
	}
	if len(fieldErrors) > 0 {
		return &CheckoutResult{State: StateCollecting, FieldErrors: fieldErrors},
			&AddressValidationError{Fields: fieldErrors}
	}

	if req.Channel == models.PaymentOnline && req.PaymentID == "" {
		// Gateway dismissal or failure: back to Collecting, no order.
		return &CheckoutResult{State: StateCollecting, Message: ErrPaymentIncomplete.Error()}, ErrPaymentIncomplete
	}

	// --- Submitting: freeze the cart snapshot ---
	orderItems := make([]models.OrderItem, len(items))
	var total float64
	for i, item := range items {
		orderItems[i] = models.OrderItem{
			ProductID: item.ProductID,
			Name:      item.ProductName,
			Weight:    item.Weight,
			Price:     item.Price,
			Quantity:  item.Quantity,
		}
		total += item.Subtotal()
	}

	switch req.Channel {
	case models.PaymentCOD, models.PaymentOnline:
		return s.submitOrder(session, req, address, orderItems, total)
	case models.PaymentWhatsApp:
		return s.submitWhatsApp(session, name, customerPhone, address, orderItems, total)
	case models.PaymentEmail:
		return s.submitEmail(session, name, customerEmail, customerPhone, address, orderItems, total)
	default:
		return &CheckoutResult{State: StateCollecting, Message: "unknown channel"},
			fmt.Errorf("unknown checkout channel: %q", req.Channel)
	}
}

// resolveAddress picks the delivery address source and validates it.
func (s *CheckoutService) resolveAddress(session CartSession, req CheckoutRequest) (resolvedAddress, map[string]string, error) {
	if req.AddressID != "" {
		if !session.Authenticated {
			return resolvedAddress{}, map[string]string{"addressId": "Sign in to use saved addresses"}, nil
		}
		saved, err := s.addresses.GetForOwner(session.OwnerID, req.AddressID)
		if err != nil {
			return resolvedAddress{}, nil, err
		}
		if saved == nil {
			return resolvedAddress{}, map[string]string{"addressId": "Saved address not found"}, nil
		}
		parts := &SaveAddressInput{
			Name:         saved.Name,
			Phone:        saved.Phone,
			AddressLine1: saved.AddressLine1,
			AddressLine2: saved.AddressLine2,
			City:         saved.City,
			State:        saved.State,
			Pincode:      saved.Pincode,
			Landmark:     saved.Landmark,
		}
		return resolvedAddress{display: formatAddress(parts), parts: parts}, nil, nil
	}

	if req.Address != nil {
		fieldErrors := validation.ValidateAddress(validation.AddressInput{
			Name:         req.Address.Name,
			Phone:        req.Address.Phone,
			AddressLine1: req.Address.AddressLine1,
			City:         req.Address.City,
			State:        req.Address.State,
			Pincode:      req.Address.Pincode,
		})
		if len(fieldErrors) > 0 {
			return resolvedAddress{}, fieldErrors, nil
		}
		return resolvedAddress{display: formatAddress(req.Address), parts: req.Address}, nil, nil
	}

	// Free-form encrypted address from the simple checkout form.
	display, err := s.codec.Decrypt(req.Customer.Address)
	if err != nil {
		return resolvedAddress{}, nil, fmt.Errorf("%w: %v", ErrDecryptFailed, err)
	}
	if strings.TrimSpace(display) == "" {
		return resolvedAddress{}, map[string]string{"address": "Address is required"}, nil
	}
	return resolvedAddress{display: display}, nil, nil
}

// submitOrder handles the cod and online channels: record the order, then
// clear the cart. Any store failure leaves the cart untouched.
func (s *CheckoutService) submitOrder(session CartSession, req CheckoutRequest,
	address resolvedAddress, items []models.OrderItem, total float64) (*CheckoutResult, error) {

	orderReq := OrderRequest{
		Customer:      req.Customer,
		Items:         items,
		Total:         total,
		PaymentMethod: req.Channel,
		PaymentID:     req.PaymentID,
	}
	if address.parts != nil {
		// The address book / structured form path carries the address in
		// the clear; re-obfuscate so the order log's decrypt-before-store
		// contract holds for every caller.
		enc, err := s.codec.Encrypt(address.display)
		if err != nil {
			return &CheckoutResult{State: StateFailed, Retryable: true}, fmt.Errorf("%w: %v", ErrTransport, err)
		}
		orderReq.Customer.Address = enc
	}

	order, err := s.orders.RecordOrder(orderReq)
	if err != nil {
		if errors.Is(err, ErrEmptyOrder) || errors.Is(err, ErrMissingCustomer) || errors.Is(err, ErrDecryptFailed) {
			return &CheckoutResult{State: StateCollecting, Message: err.Error()}, err
		}
		return &CheckoutResult{State: StateFailed, Retryable: true}, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	s.clearCart(session)
	return &CheckoutResult{State: StateSucceeded, OrderID: order.ID}, nil
}

// submitWhatsApp hands the order summary to the messaging app via deep link.
// There is no server confirmation on this path; the handoff itself is the
// terminal event and the cart is cleared immediately.
func (s *CheckoutService) submitWhatsApp(session CartSession, name, phone string,
	address resolvedAddress, items []models.OrderItem, total float64) (*CheckoutResult, error) {

	link := whatsapp.Link(s.waNumber, whatsapp.OrderSummary{
		CustomerName:    name,
		CustomerPhone:   phone,
		CustomerAddress: address.display,
		Items:           items,
		Total:           total,
	})
	s.clearCart(session)
	return &CheckoutResult{State: StateSucceeded, WhatsAppURL: link}, nil
}

// submitEmail enqueues the order summary on the outbox. Enqueue failure
// falls back to the WhatsApp deep link rather than failing silently.
func (s *CheckoutService) submitEmail(session CartSession, name, email, phone string,
	address resolvedAddress, items []models.OrderItem, total float64) (*CheckoutResult, error) {

	in := OrderEmailInput{
		CustomerName:  name,
		CustomerEmail: email,
		CustomerPhone: phone,
		Items:         items,
		Total:         total,
		PaymentMethod: models.PaymentCOD,
	}
	if address.parts != nil {
		in.AddressLine1 = address.parts.AddressLine1
		in.AddressLine2 = address.parts.AddressLine2
		in.City = address.parts.City
		in.State = address.parts.State
		in.Pincode = address.parts.Pincode
		in.Landmark = address.parts.Landmark
	} else {
		in.AddressLine1 = address.display
	}

	job, err := s.email.EnqueueOrderSummary(in)
	if err != nil {
		log.Printf("Email relay enqueue failed, falling back to WhatsApp: %v", err)
		return s.submitWhatsApp(session, name, phone, address, items, total)
	}

	s.clearCart(session)
	return &CheckoutResult{State: StateSucceeded, EmailJobID: job.ID}, nil
}

// clearCart empties the cart after a terminal success. The order is already
// durably recorded or handed off at this point, so a failed clear is logged
// rather than surfaced.
func (s *CheckoutService) clearCart(session CartSession) {
	if err := s.cart.Clear(session); err != nil {
		log.Printf("Failed to clear cart for %s after checkout: %v", session.OwnerID, err)
	}
}

func formatAddress(a *SaveAddressInput) string {
	parts := []string{a.AddressLine1}
	if a.AddressLine2 != "" {
		parts = append(parts, a.AddressLine2)
	}
	parts = append(parts, fmt.Sprintf("%s, %s", a.City, a.State), a.Pincode)
	if a.Landmark != "" {
		parts = append(parts, fmt.Sprintf("Landmark: %s", a.Landmark))
	}
	return strings.Join(parts, ", ")
}
