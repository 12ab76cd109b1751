package repositories

import (
	"fmt"

	"thulasibloom/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMEmailJobRepository is a GORM implementation of EmailJobRepository.
type GORMEmailJobRepository struct {
	db *gorm.DB
}

// NewGORMEmailJobRepository creates a new instance of GORMEmailJobRepository.
func NewGORMEmailJobRepository(db *gorm.DB) *GORMEmailJobRepository {
	return &GORMEmailJobRepository{
		db: db,
	}
}

// Create persists a new email job in the pending state.
func (r *GORMEmailJobRepository) Create(job *models.EmailJob) error {
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	if job.Status == "" {
		job.Status = models.EmailJobPending
	}
	if err := r.db.Create(job).Error; err != nil {
		return fmt.Errorf("failed to create email job: %w", err)
	}
	return nil
}

// PendingBatch returns up to limit pending jobs, oldest first.
func (r *GORMEmailJobRepository) PendingBatch(limit int) ([]models.EmailJob, error) {
	var jobs []models.EmailJob
	err := r.db.Where("status = ?", models.EmailJobPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pending email jobs: %w", err)
	}
	return jobs, nil
}

// MarkSent moves a job to the sent state.
func (r *GORMEmailJobRepository) MarkSent(id string) error {
	res := r.db.Model(&models.EmailJob{}).Where("id = ?", id).
		Updates(map[string]interface{}{"status": models.EmailJobSent, "last_error": ""})
	if res.Error != nil {
		return fmt.Errorf("failed to mark email job sent: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("email job with ID %s not found", id)
	}
	return nil
}

// MarkAttemptFailed records a failed delivery attempt. Jobs that exhaust
// maxAttempts are left in the terminal failed state for manual inspection.
func (r *GORMEmailJobRepository) MarkAttemptFailed(id string, sendErr string, maxAttempts int) error {
	var job models.EmailJob
	if err := r.db.First(&job, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("email job with ID %s not found", id)
		}
		return fmt.Errorf("failed to load email job %s: %w", id, err)
	}

	job.Attempts++
	job.LastError = sendErr
	if job.Attempts >= maxAttempts {
		job.Status = models.EmailJobFailed
	}
	if err := r.db.Save(&job).Error; err != nil {
		return fmt.Errorf("failed to record email job attempt: %w", err)
	}
	return nil
}
