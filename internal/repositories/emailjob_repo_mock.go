package repositories

import (
	"fmt"
	"sync"
	"time"

	"thulasibloom/internal/models"

	"github.com/google/uuid"
)

// MockEmailJobRepository is an in-memory implementation of EmailJobRepository.
type MockEmailJobRepository struct {
	jobs []models.EmailJob
	mu   sync.Mutex
}

// NewMockEmailJobRepository creates a new instance of MockEmailJobRepository.
func NewMockEmailJobRepository() *MockEmailJobRepository {
	return &MockEmailJobRepository{}
}

// Create appends a new email job in the pending state.
func (r *MockEmailJobRepository) Create(job *models.EmailJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	if job.Status == "" {
		job.Status = models.EmailJobPending
	}
	job.CreatedAt = time.Now()
	r.jobs = append(r.jobs, *job)
	return nil
}

// PendingBatch returns up to limit pending jobs, oldest first.
func (r *MockEmailJobRepository) PendingBatch(limit int) ([]models.EmailJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.EmailJob
	for _, job := range r.jobs {
		if job.Status == models.EmailJobPending {
			out = append(out, job)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

// MarkSent moves a job to the sent state.
func (r *MockEmailJobRepository) MarkSent(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.jobs {
		if r.jobs[i].ID == id {
			r.jobs[i].Status = models.EmailJobSent
			r.jobs[i].LastError = ""
			return nil
		}
	}
	return fmt.Errorf("email job with ID %s not found", id)
}

// MarkAttemptFailed records a failed delivery attempt.
func (r *MockEmailJobRepository) MarkAttemptFailed(id string, sendErr string, maxAttempts int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.jobs {
		if r.jobs[i].ID == id {
			r.jobs[i].Attempts++
			r.jobs[i].LastError = sendErr
			if r.jobs[i].Attempts >= maxAttempts {
				r.jobs[i].Status = models.EmailJobFailed
			}
			return nil
		}
	}
	return fmt.Errorf("email job with ID %s not found", id)
}

// Get returns a copy of a job by ID. Test helper.
func (r *MockEmailJobRepository) Get(id string) (*models.EmailJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, job := range r.jobs {
		if job.ID == id {
			copied := job
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("email job with ID %s not found", id)
}
