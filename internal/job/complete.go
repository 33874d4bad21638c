package job

import (
	"errors"
	"fmt"
	"log"

	"github.com/salemkamoundev/Snay3ia/internal/identity"
	"github.com/salemkamoundev/Snay3ia/internal/models"
	"github.com/salemkamoundev/Snay3ia/internal/stream"
	"gorm.io/gorm"
)

// ErrNotAssigned is returned when completion is attempted on a job that is
// not currently assigned.
var ErrNotAssigned = errors.New("job: not assigned")

// Complete marks an assigned job as completed. Owner-only. The transition
// is a single conditional update guarded by status=assigned, so repeated
// or racing calls resolve to ErrNotAssigned rather than a double bump of
// the worker's completed-jobs counter.
func Complete(gormDB *gorm.DB, hub *stream.Hub, jobID, callerID string) (*models.Job, error) {
	if callerID == "" {
		return nil, identity.ErrUnauthenticated
	}

	j, err := Get(gormDB, jobID)
	if err != nil {
		return nil, err
	}
	if j.OwnerID != callerID {
		return nil, fmt.Errorf("%w: job %s belongs to another owner", identity.ErrNotAuthorized, jobID)
	}

	err = gormDB.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Job{}).
			Where("id = ? AND status = ?", jobID, StatusAssigned).
			Update("status", StatusCompleted)
		if result.Error != nil {
			return fmt.Errorf("job: complete %s: %w", jobID, result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: %s is %q", ErrNotAssigned, jobID, j.Status)
		}

		if j.WorkerID != "" {
			bump := tx.Model(&models.WorkerProfile{}).
				Where("user_id = ?", j.WorkerID).
				Update("completed_jobs", gorm.Expr("completed_jobs + 1"))
			if bump.Error != nil {
				return fmt.Errorf("job: bump completed jobs for %s: %w", j.WorkerID, bump.Error)
			}
			if bump.RowsAffected == 0 {
				log.Printf("job: worker %s has no profile, completed jobs counter not recorded", j.WorkerID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	j.Status = StatusCompleted
	if hub != nil {
		hub.Publish(stream.TopicJobs)
	}
	return j, nil
}
