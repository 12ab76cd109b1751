package repositories

import "thulasibloom/internal/models"

// EmailJobRepository defines the interface for the order email outbox.
type EmailJobRepository interface {
	Create(job *models.EmailJob) error
	// PendingBatch returns up to limit pending jobs, oldest first.
	PendingBatch(limit int) ([]models.EmailJob, error)
	MarkSent(id string) error
	// MarkAttemptFailed increments the attempt counter and records the
	// error; once attempts reach maxAttempts the job moves to the terminal
	// failed state.
	MarkAttemptFailed(id string, sendErr string, maxAttempts int) error
}
