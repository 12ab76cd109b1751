package models

import "time"

// Email job states. A job abandoned after the retry ceiling stays in
// EmailJobFailed for manual inspection.
const (
	EmailJobPending = "pending"
	EmailJobSent    = "sent"
	EmailJobFailed  = "failed"
)

// EmailJob is an outbox row for an order summary email. The relay sweeper
// claims pending jobs in bounded batches and delivers them at-least-once.
type EmailJob struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string    `json:"order_id" gorm:"index"`
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Status    string    `json:"status" gorm:"index;default:pending"`
	Attempts  int       `json:"attempts"`
	LastError string    `json:"last_error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}
