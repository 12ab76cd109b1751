package services

import (
	"fmt"
	"strings"
	"time"

	"thulasibloom/internal/models"
	"thulasibloom/internal/repositories"
)

// EmailService formats order summaries and enqueues them on the outbox for
// the relay sweeper. Enqueueing is the durable handoff; actual delivery is
// at-least-once and happens in the background.
type EmailService struct {
	jobs       repositories.EmailJobRepository
	storeEmail string
}

// NewEmailService creates a new EmailService. storeEmail is the back-office
// inbox that receives order summaries.
func NewEmailService(jobs repositories.EmailJobRepository, storeEmail string) *EmailService {
	return &EmailService{
		jobs:       jobs,
		storeEmail: storeEmail,
	}
}

// OrderEmailInput carries everything rendered into the order summary email.
type OrderEmailInput struct {
	OrderID       string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	AddressLine1  string
	AddressLine2  string
	City          string
	State         string
	Pincode       string
	Landmark      string
	Items         []models.OrderItem
	Total         float64
	PaymentMethod string
	OrderDate     time.Time
}

// EnqueueOrderSummary renders the plain-text order summary and creates a
// pending outbox job. The returned job carries the assigned id.
func (s *EmailService) EnqueueOrderSummary(in OrderEmailInput) (*models.EmailJob, error) {
	job := &models.EmailJob{
		OrderID:   in.OrderID,
		Recipient: s.storeEmail,
		Subject:   fmt.Sprintf("New Order from %s", in.CustomerName),
		Body:      renderOrderEmail(in),
	}
	if err := s.jobs.Create(job); err != nil {
		return nil, fmt.Errorf("failed to enqueue order email: %w", err)
	}
	return job, nil
}

func renderOrderEmail(in OrderEmailInput) string {
	var lines []string
	for _, item := range in.Items {
		lines = append(lines, fmt.Sprintf("%s (%s) x %d = ₹%.0f",
			item.Name, item.Weight, item.Quantity, item.Price*float64(item.Quantity)))
	}

	paymentLabel := "Cash on Delivery"
	if in.PaymentMethod == models.PaymentOnline {
		paymentLabel = "Online Payment"
	}

	orderDate := in.OrderDate
	if orderDate.IsZero() {
		orderDate = time.Now()
	}

	return fmt.Sprintf(`New Order from ThulasiBloom Website

Customer Details:
Name: %s
Email: %s
Phone: %s

Delivery Address:
%s
%s
%s, %s
Pincode: %s
Landmark: %s

Order Items:
%s

Total Amount: ₹%.0f
Payment Method: %s
Delivery: By Courier

Order Date: %s

Please contact the customer to confirm the order.
`,
		in.CustomerName, in.CustomerEmail, in.CustomerPhone,
		in.AddressLine1, in.AddressLine2, in.City, in.State, in.Pincode, in.Landmark,
		strings.Join(lines, "\n"),
		in.Total, paymentLabel,
		orderDate.Format(time.RFC1123))
}
