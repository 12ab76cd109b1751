// Package relay implements the background order email sweeper. It claims
// pending outbox jobs in bounded batches and delivers them at-least-once:
// a failed send increments the job's attempt counter, and a job that
// exhausts the ceiling is parked in the terminal failed state for manual
// inspection.
package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"thulasibloom/internal/models"
	"thulasibloom/internal/repositories"
	"thulasibloom/pkg/rabbitmq"
)

// Sender delivers one order email to the outbound transport.
type Sender interface {
	Send(job models.EmailJob) error
}

// Config tunes the sweeper.
type Config struct {
	Interval    time.Duration
	BatchSize   int
	MaxAttempts int
}

// Relay periodically sweeps the email outbox.
type Relay struct {
	jobs   repositories.EmailJobRepository
	sender Sender
	cfg    Config
}

// New creates a Relay. Zero config fields fall back to sane defaults.
func New(jobs repositories.EmailJobRepository, sender Sender, cfg Config) *Relay {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	return &Relay{
		jobs:   jobs,
		sender: sender,
		cfg:    cfg,
	}
}

// Run sweeps until the context is cancelled.
func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	log.Printf("Email relay started (every %s, batch %d, max %d attempts)",
		r.cfg.Interval, r.cfg.BatchSize, r.cfg.MaxAttempts)

	for {
		select {
		case <-ctx.Done():
			log.Println("Email relay stopped")
			return
		case <-ticker.C:
			r.SweepOnce()
		}
	}
}

// SweepOnce claims one batch of pending jobs and attempts delivery,
// returning how many were sent and how many attempts failed.
func (r *Relay) SweepOnce() (sent, failed int) {
	batch, err := r.jobs.PendingBatch(r.cfg.BatchSize)
	if err != nil {
		log.Printf("Email relay sweep failed to claim batch: %v", err)
		return 0, 0
	}

	for _, job := range batch {
		if err := r.sender.Send(job); err != nil {
			failed++
			log.Printf("Email job %s delivery failed (attempt %d): %v", job.ID, job.Attempts+1, err)
			if markErr := r.jobs.MarkAttemptFailed(job.ID, err.Error(), r.cfg.MaxAttempts); markErr != nil {
				log.Printf("Failed to record attempt for email job %s: %v", job.ID, markErr)
			}
			continue
		}
		sent++
		if err := r.jobs.MarkSent(job.ID); err != nil {
			log.Printf("Failed to mark email job %s sent: %v", job.ID, err)
		}
	}
	return sent, failed
}

// QueueSender publishes jobs to the RabbitMQ email queue; the consumer on
// the other side performs the SMTP hop.
type QueueSender struct {
	mq *rabbitmq.Client
}

// NewQueueSender creates a QueueSender.
func NewQueueSender(mq *rabbitmq.Client) *QueueSender {
	return &QueueSender{mq: mq}
}

// Send publishes the job to the email queue.
func (s *QueueSender) Send(job models.EmailJob) error {
	return s.mq.PublishEmail(rabbitmq.EmailMessage{
		JobID:     job.ID,
		OrderID:   job.OrderID,
		Recipient: job.Recipient,
		Subject:   job.Subject,
		Body:      job.Body,
	})
}

// LogSender writes the email to the application log. Used when no broker is
// configured, matching the storefront's manual-processing mode.
type LogSender struct{}

// Send logs the order email details.
func (LogSender) Send(job models.EmailJob) error {
	log.Printf("Order Email Details (job %s, to %s):\n%s", job.ID, job.Recipient, job.Body)
	return nil
}

// DeliverQueuedEmail processes one message drained from the email queue:
// the payload is decoded and the order email is written to the log for
// manual processing. A decode failure is returned so the consumer nacks
// the message instead of acking it.
func DeliverQueuedEmail(body []byte) error {
	var msg rabbitmq.EmailMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("malformed queued email message: %w", err)
	}
	log.Printf("Order Email Details (job %s, to %s):\n%s", msg.JobID, msg.Recipient, msg.Body)
	return nil
}
