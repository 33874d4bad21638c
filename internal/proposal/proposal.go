// Package proposal provides the proposal ledger and the acceptance
// transition.
package proposal

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/salemkamoundev/Snay3ia/internal/identity"
	"github.com/salemkamoundev/Snay3ia/internal/job"
	"github.com/salemkamoundev/Snay3ia/internal/models"
	"github.com/salemkamoundev/Snay3ia/internal/notify"
	"github.com/salemkamoundev/Snay3ia/internal/stream"
	"gorm.io/gorm"
)

// Ledger business-rule errors. Each rejects the operation with no state
// change.
var (
	ErrInvalidPrice      = errors.New("proposal: price must be positive")
	ErrJobNotOpen        = errors.New("proposal: job is not open for proposals")
	ErrDuplicateProposal = errors.New("proposal: worker already has a proposal on this job")
)

// SubmitOpts holds parameters for submitting a proposal.
type SubmitOpts struct {
	JobID       string
	Worker      identity.Identity
	Price       float64
	Description string
}

// Submit appends a proposal to a job's ledger. The append runs in a
// transaction and the (job_id, worker_id) primary key backs the
// one-proposal-per-worker invariant even when two submissions race past
// the snapshot check. The owner is notified best-effort; a notification
// failure never fails the submission.
func Submit(gormDB *gorm.DB, hub *stream.Hub, opts SubmitOpts) (*models.Proposal, error) {
	if opts.Worker.ID == "" {
		return nil, identity.ErrUnauthenticated
	}
	if opts.Price <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidPrice, opts.Price)
	}

	workerName := opts.Worker.DisplayName
	if workerName == "" {
		workerName = "Artisan"
	}

	var j models.Job
	p := models.Proposal{
		JobID:       opts.JobID,
		WorkerID:    opts.Worker.ID,
		WorkerName:  workerName,
		Price:       opts.Price,
		Description: opts.Description,
		Status:      "pending",
		CreatedAt:   time.Now(),
	}

	err := gormDB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", opts.JobID).First(&j).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", job.ErrNotFound, opts.JobID)
			}
			return fmt.Errorf("proposal: get job %s: %w", opts.JobID, err)
		}
		if !job.IsOpen(j.Status) {
			return fmt.Errorf("%w: %s is %q", ErrJobNotOpen, opts.JobID, j.Status)
		}

		if err := tx.Create(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: %s on %s", ErrDuplicateProposal, opts.Worker.ID, opts.JobID)
			}
			return fmt.Errorf("proposal: submit: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("%s proposed %s TND for your breakdown", workerName, formatPrice(opts.Price))
	if _, err := notify.Notify(gormDB, hub, j.OwnerID, msg, notify.Opts{
		JobID: j.ID,
		Type:  notify.TypeProposal,
	}); err != nil {
		log.Printf("proposal: notify owner %s: %v", j.OwnerID, err)
	}

	if hub != nil {
		hub.Publish(stream.TopicJobs)
	}
	return &p, nil
}

// HasProposed reports whether the worker already has a proposal on the
// given job snapshot.
func HasProposed(j *models.Job, workerID string) bool {
	for _, p := range j.Proposals {
		if p.WorkerID == workerID {
			return true
		}
	}
	return false
}

// formatPrice renders a price without trailing zeros (60, 55.5, 0.01).
func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}
