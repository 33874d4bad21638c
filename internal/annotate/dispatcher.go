package annotate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/salemkamoundev/Snay3ia/internal/job"
	"github.com/salemkamoundev/Snay3ia/internal/models"
	"github.com/salemkamoundev/Snay3ia/internal/stream"
	"gorm.io/gorm"
)

// DispatcherOpts holds configuration for the annotation dispatcher.
type DispatcherOpts struct {
	DB           *gorm.DB
	Hub          *stream.Hub
	Annotator    Annotator
	Timeout      time.Duration // per-job annotation deadline
	PollInterval time.Duration // fallback when no hub signal arrives
}

// Dispatcher claims pending jobs one at a time and writes back exactly one
// of {ai_result, error marker} per job. The claim and both write-backs are
// conditional updates on ai_state, so a second dispatcher (or a restarted
// one) can never double-annotate a job.
type Dispatcher struct {
	db           *gorm.DB
	hub          *stream.Hub
	annotator    Annotator
	timeout      time.Duration
	pollInterval time.Duration
}

// NewDispatcher validates opts and returns a dispatcher.
func NewDispatcher(opts DispatcherOpts) (*Dispatcher, error) {
	if opts.DB == nil {
		return nil, fmt.Errorf("annotate: db is required")
	}
	if opts.Annotator == nil {
		return nil, fmt.Errorf("annotate: annotator is required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 5 * time.Second
	}
	return &Dispatcher{
		db:           opts.DB,
		hub:          opts.Hub,
		annotator:    opts.Annotator,
		timeout:      opts.Timeout,
		pollInterval: opts.PollInterval,
	}, nil
}

// Run drains the pending queue, then blocks until a job-creation signal or
// the poll interval wakes it. Returns when ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	var signal <-chan struct{}
	if d.hub != nil {
		ch, cancel := d.hub.Subscribe(stream.TopicJobs)
		defer cancel()
		signal = ch
	}

	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		d.Drain(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-signal:
		case <-ticker.C:
		}
	}
}

// Drain processes every currently pending job.
func (d *Dispatcher) Drain(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		j, err := d.claimNext()
		if err != nil {
			log.Printf("annotate: claim: %v", err)
			return
		}
		if j == nil {
			return
		}
		d.ProcessOne(ctx, j)
	}
}

// claimNext atomically moves the oldest pending job to running and returns
// it. Returns nil when the queue is empty.
func (d *Dispatcher) claimNext() (*models.Job, error) {
	var claimed models.Job

	err := d.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("ai_state = ?", job.AIPending).
			Order("created_at ASC").
			Limit(1).
			Find(&claimed)
		if result.Error != nil {
			return fmt.Errorf("annotate: find pending job: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		update := tx.Model(&models.Job{}).
			Where("id = ? AND ai_state = ?", claimed.ID, job.AIPending).
			Update("ai_state", job.AIRunning)
		if update.Error != nil {
			return fmt.Errorf("annotate: claim %s: %w", claimed.ID, update.Error)
		}
		if update.RowsAffected == 0 {
			// Another dispatcher got there first.
			return gorm.ErrRecordNotFound
		}
		claimed.AIState = job.AIRunning
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &claimed, nil
}

// ProcessOne runs the annotator for a claimed job and writes the result
// back. A failed annotation is terminal for that job's diagnosis: the job
// moves to status=error but keeps collecting proposals.
func (d *Dispatcher) ProcessOne(ctx context.Context, j *models.Job) {
	urls := j.MediaURLList()
	if len(urls) == 0 {
		d.writeError(j.ID, "no media attached to job")
		return
	}

	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	analysis, err := d.annotator.Annotate(callCtx, j.Description, urls)
	if err != nil {
		log.Printf("annotate: job %s: %v", j.ID, err)
		d.writeError(j.ID, err.Error())
		return
	}
	d.writeResult(j.ID, analysis)
}

// writeResult commits a successful diagnosis. The job stays in
// status=analyzing: an AI result never closes the job.
func (d *Dispatcher) writeResult(jobID string, analysis *models.AIAnalysis) {
	data, err := json.Marshal(analysis)
	if err != nil {
		d.writeError(jobID, fmt.Sprintf("encode analysis: %v", err))
		return
	}

	result := d.db.Model(&models.Job{}).
		Where("id = ? AND ai_state = ?", jobID, job.AIRunning).
		Updates(map[string]interface{}{
			"ai_state":  job.AIDone,
			"ai_result": string(data),
		})
	if result.Error != nil {
		log.Printf("annotate: write result for %s: %v", jobID, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		log.Printf("annotate: job %s claim lost before result write", jobID)
		return
	}
	if d.hub != nil {
		d.hub.Publish(stream.TopicJobs)
	}
}

// writeError commits the error marker. The status transition to error only
// applies while the job is still analyzing; an already assigned job keeps
// its status and just records the message.
func (d *Dispatcher) writeError(jobID, message string) {
	err := d.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Job{}).
			Where("id = ? AND ai_state = ?", jobID, job.AIRunning).
			Updates(map[string]interface{}{
				"ai_state":      job.AIError,
				"error_message": message,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		return tx.Model(&models.Job{}).
			Where("id = ? AND status = ?", jobID, job.StatusAnalyzing).
			Update("status", job.StatusError).Error
	})
	if err != nil {
		log.Printf("annotate: write error for %s: %v", jobID, err)
		return
	}
	if d.hub != nil {
		d.hub.Publish(stream.TopicJobs)
	}
}
