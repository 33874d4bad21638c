package proposal

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/salemkamoundev/Snay3ia/internal/identity"
	"github.com/salemkamoundev/Snay3ia/internal/job"
	"github.com/salemkamoundev/Snay3ia/internal/models"
	"github.com/salemkamoundev/Snay3ia/internal/notify"
	"github.com/salemkamoundev/Snay3ia/internal/stream"
	"gorm.io/gorm"
)

// ErrAlreadyAssigned is returned when the job was no longer open at commit
// time. At most one acceptance can ever succeed on a job.
var ErrAlreadyAssigned = errors.New("proposal: job already assigned")

// Accept locks the job to one worker at that worker's proposed price.
// Owner-only. The commit is a single conditional update guarded by the
// job still being open, so a double-click or a second tab observes
// ErrAlreadyAssigned instead of overwriting the assignment. The losing
// proposals stay in place, inert; no rejection notices are sent.
func Accept(gormDB *gorm.DB, hub *stream.Hub, jobID, callerID, workerID string) (*models.Job, error) {
	if callerID == "" {
		return nil, identity.ErrUnauthenticated
	}

	j, err := job.Get(gormDB, jobID)
	if err != nil {
		return nil, err
	}
	if j.OwnerID != callerID {
		return nil, fmt.Errorf("%w: job %s belongs to another owner", identity.ErrNotAuthorized, jobID)
	}

	var chosen *models.Proposal
	for i := range j.Proposals {
		if j.Proposals[i].WorkerID == workerID {
			chosen = &j.Proposals[i]
			break
		}
	}
	if chosen == nil {
		return nil, fmt.Errorf("%w: no proposal from %s on %s", job.ErrNotFound, workerID, jobID)
	}

	now := time.Now()
	result := gormDB.Model(&models.Job{}).
		Where("id = ? AND status IN ?", jobID, job.OpenStatuses).
		Updates(map[string]interface{}{
			"status":         job.StatusAssigned,
			"worker_id":      chosen.WorkerID,
			"accepted_price": chosen.Price,
			"accepted_at":    now,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("proposal: accept on %s: %w", jobID, result.Error)
	}
	if result.RowsAffected == 0 {
		// Lost the race, or the job vanished underneath us.
		var count int64
		if err := gormDB.Model(&models.Job{}).Where("id = ?", jobID).Count(&count).Error; err == nil && count == 0 {
			return nil, fmt.Errorf("%w: %s", job.ErrNotFound, jobID)
		}
		return nil, fmt.Errorf("%w: %s", ErrAlreadyAssigned, jobID)
	}

	j.Status = job.StatusAssigned
	j.WorkerID = chosen.WorkerID
	j.AcceptedPrice = chosen.Price
	j.AcceptedAt = &now

	if _, err := notify.Notify(gormDB, hub, chosen.WorkerID, "Your offer was accepted!", notify.Opts{
		JobID: jobID,
		Type:  notify.TypeAcceptance,
	}); err != nil {
		log.Printf("proposal: notify worker %s: %v", chosen.WorkerID, err)
	}

	if hub != nil {
		hub.Publish(stream.TopicJobs)
	}
	return j, nil
}
