package annotate

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/salemkamoundev/Snay3ia/internal/job"
	"github.com/salemkamoundev/Snay3ia/internal/models"
	"gorm.io/gorm"
)

// cronParser uses standard 5-field cron expressions (minute, hour, dom,
// month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// NextSweepDuration parses a 5-field cron expression and returns the
// duration until the next fire time. Returns 0 on parse error.
func NextSweepDuration(expr string) time.Duration {
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return 0
	}
	next := sched.Next(time.Now())
	d := time.Until(next)
	if d < 0 {
		return 0
	}
	return d
}

// ReleaseStale requeues running claims older than maxAge. This only
// rescues claims whose dispatcher died before writing anything back; a
// completed annotation (done or error) is never retried. Returns the
// number of claims released.
func ReleaseStale(gormDB *gorm.DB, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge)
	result := gormDB.Model(&models.Job{}).
		Where("ai_state = ? AND updated_at < ?", job.AIRunning, cutoff).
		Update("ai_state", job.AIPending)
	if result.Error != nil {
		return 0, fmt.Errorf("annotate: release stale claims: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		log.Printf("annotate: released %d stale annotation claim(s)", result.RowsAffected)
	}
	return result.RowsAffected, nil
}
