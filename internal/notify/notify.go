// Package notify provides per-recipient notification inboxes.
package notify

import (
	"errors"
	"fmt"
	"time"

	"github.com/salemkamoundev/Snay3ia/internal/identity"
	"github.com/salemkamoundev/Snay3ia/internal/models"
	"github.com/salemkamoundev/Snay3ia/internal/stream"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a notification does not exist.
var ErrNotFound = errors.New("notify: not found")

// Notification type tags.
const (
	TypeProposal   = "proposal"
	TypeAcceptance = "acceptance"
)

// Opts holds optional parameters for a notification.
type Opts struct {
	JobID string
	Type  string
}

// Notify appends a notification to the recipient's inbox. Callers that
// trigger notifications from another write treat a returned error as a
// diagnostic warning, never as a failure of the triggering operation.
func Notify(gormDB *gorm.DB, hub *stream.Hub, recipientID, message string, opts Opts) (*models.Notification, error) {
	if recipientID == "" {
		return nil, fmt.Errorf("notify: recipientID is required")
	}
	if message == "" {
		return nil, fmt.Errorf("notify: message is required")
	}

	n := models.Notification{
		RecipientID: recipientID,
		Message:     message,
		Type:        opts.Type,
		JobID:       opts.JobID,
		CreatedAt:   time.Now(),
	}
	if err := gormDB.Create(&n).Error; err != nil {
		return nil, fmt.Errorf("notify: %s: %w", recipientID, err)
	}

	if hub != nil {
		hub.Publish(stream.InboxTopic(recipientID))
	}
	return &n, nil
}

// Inbox returns the recipient's notifications, newest first. A limit of 0
// means no limit.
func Inbox(gormDB *gorm.DB, recipientID string, limit int) ([]models.Notification, error) {
	if recipientID == "" {
		return nil, fmt.Errorf("notify: recipientID is required")
	}
	q := gormDB.Where("recipient_id = ?", recipientID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var ns []models.Notification
	if err := q.Find(&ns).Error; err != nil {
		return nil, fmt.Errorf("notify: inbox %s: %w", recipientID, err)
	}
	return ns, nil
}

// MarkRead flips one notification to read. Idempotent: marking an already
// read notification is a no-op. Callers other than the owner get
// identity.ErrNotAuthorized.
func MarkRead(gormDB *gorm.DB, callerID string, notificationID uint) error {
	if callerID == "" {
		return identity.ErrUnauthenticated
	}

	var n models.Notification
	if err := gormDB.Where("id = ?", notificationID).First(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %d", ErrNotFound, notificationID)
		}
		return fmt.Errorf("notify: get %d: %w", notificationID, err)
	}
	if n.RecipientID != callerID {
		return fmt.Errorf("%w: notification %d belongs to another recipient", identity.ErrNotAuthorized, notificationID)
	}
	if n.Read {
		return nil
	}

	if err := gormDB.Model(&models.Notification{}).Where("id = ?", notificationID).
		Update("is_read", true).Error; err != nil {
		return fmt.Errorf("notify: mark read %d: %w", notificationID, err)
	}
	return nil
}

// MarkAllRead flips every unread notification in the caller's inbox with a
// single batched update. Idempotent.
func MarkAllRead(gormDB *gorm.DB, callerID string) error {
	if callerID == "" {
		return identity.ErrUnauthenticated
	}
	if err := gormDB.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", callerID, false).
		Update("is_read", true).Error; err != nil {
		return fmt.Errorf("notify: mark all read %s: %w", callerID, err)
	}
	return nil
}

// LatestForJob returns the most recent notification referencing a job, or
// nil when there is none.
func LatestForJob(gormDB *gorm.DB, jobID string) (*models.Notification, error) {
	if jobID == "" {
		return nil, fmt.Errorf("notify: jobID is required")
	}
	var n models.Notification
	err := gormDB.Where("job_id = ?", jobID).Order("id DESC").First(&n).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("notify: latest for job %s: %w", jobID, err)
	}
	return &n, nil
}

// UnreadCount returns the number of unread notifications for a recipient.
func UnreadCount(gormDB *gorm.DB, recipientID string) (int64, error) {
	if recipientID == "" {
		return 0, fmt.Errorf("notify: recipientID is required")
	}
	var count int64
	if err := gormDB.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("notify: unread count %s: %w", recipientID, err)
	}
	return count, nil
}
