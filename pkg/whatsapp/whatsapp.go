// Package whatsapp builds wa.me deep links with a prefilled order summary.
// The handoff is fire-and-forget: once the link is produced there is no
// server-side confirmation that the message was sent.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"thulasibloom/internal/models"
)

// OrderSummary is the information rendered into the prefilled message.
type OrderSummary struct {
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	Items           []models.OrderItem
	Total           float64
}

// Message renders the human-readable order summary.
func Message(s OrderSummary) string {
	var b strings.Builder
	b.WriteString("New Order from ThulasiBloom Website\n\n")
	fmt.Fprintf(&b, "Customer: %s\n", s.CustomerName)
	fmt.Fprintf(&b, "Phone: %s\n", s.CustomerPhone)
	fmt.Fprintf(&b, "Delivery Address: %s\n\n", s.CustomerAddress)
	b.WriteString("Order Items:\n")
	for _, item := range s.Items {
		fmt.Fprintf(&b, "%s (%s) x %d = ₹%.0f\n",
			item.Name, item.Weight, item.Quantity, item.Price*float64(item.Quantity))
	}
	fmt.Fprintf(&b, "\nTotal Amount: ₹%.0f\n", s.Total)
	b.WriteString("Delivery: By Courier")
	return b.String()
}

// Link builds the wa.me deep link for the store's number with the summary
// prefilled. The number is kept digits-only as wa.me requires.
func Link(storeNumber string, s OrderSummary) string {
	number := digitsOnly(storeNumber)
	return fmt.Sprintf("https://wa.me/%s?text=%s", number, url.QueryEscape(Message(s)))
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
