// Package chat provides the per-job message thread.
package chat

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/salemkamoundev/Snay3ia/internal/identity"
	"github.com/salemkamoundev/Snay3ia/internal/job"
	"github.com/salemkamoundev/Snay3ia/internal/models"
	"github.com/salemkamoundev/Snay3ia/internal/proposal"
	"github.com/salemkamoundev/Snay3ia/internal/stream"
	"gorm.io/gorm"
)

// Thread errors.
var (
	ErrEmptyMessage   = errors.New("chat: message is empty")
	ErrNotParticipant = errors.New("chat: not a participant of this thread")
)

// CanParticipate reports whether a user may read and write the job's
// thread. The owner always may. While the job is still open, any worker
// with a submitted proposal may; once assigned, only the assigned worker.
func CanParticipate(j *models.Job, userID string) bool {
	if userID == "" {
		return false
	}
	if userID == j.OwnerID {
		return true
	}
	if job.IsOpen(j.Status) {
		return proposal.HasProposed(j, userID)
	}
	return userID == j.WorkerID
}

// SendOpts holds parameters for sending a chat message.
type SendOpts struct {
	JobID   string
	Sender  identity.Identity
	Text    string
	ReplyTo uint // message ID to quote; 0 for none
}

// Send appends a message to the job's thread with a server-assigned
// timestamp and read=false. When ReplyTo references a message in the same
// thread, the outgoing text is prefixed with a quoted excerpt of it; the
// quote is plain text, not a structural field.
func Send(gormDB *gorm.DB, hub *stream.Hub, opts SendOpts) (*models.ChatMessage, error) {
	if opts.Sender.ID == "" {
		return nil, identity.ErrUnauthenticated
	}

	text := strings.TrimSpace(opts.Text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	j, err := job.Get(gormDB, opts.JobID)
	if err != nil {
		return nil, err
	}
	if !CanParticipate(j, opts.Sender.ID) {
		return nil, fmt.Errorf("%w: %s on %s", ErrNotParticipant, opts.Sender.ID, opts.JobID)
	}

	if opts.ReplyTo != 0 {
		var ref models.ChatMessage
		err := gormDB.Where("id = ? AND job_id = ?", opts.ReplyTo, opts.JobID).First(&ref).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("chat: reply target %d not found in thread %s", opts.ReplyTo, opts.JobID)
			}
			return nil, fmt.Errorf("chat: get reply target %d: %w", opts.ReplyTo, err)
		}
		text = ComposeReply(ref.SenderName, ref.Text, text)
	}

	senderName := opts.Sender.DisplayName
	if senderName == "" {
		senderName = "Utilisateur"
	}

	msg := models.ChatMessage{
		JobID:      opts.JobID,
		SenderID:   opts.Sender.ID,
		SenderName: senderName,
		Text:       text,
		CreatedAt:  time.Now(),
	}
	if err := gormDB.Create(&msg).Error; err != nil {
		return nil, fmt.Errorf("chat: send on %s: %w", opts.JobID, err)
	}

	if hub != nil {
		hub.Publish(stream.ChatTopic(opts.JobID))
	}
	return &msg, nil
}

// Thread returns the job's messages in creation order.
func Thread(gormDB *gorm.DB, jobID string) ([]models.ChatMessage, error) {
	if jobID == "" {
		return nil, fmt.Errorf("chat: jobID is required")
	}
	var msgs []models.ChatMessage
	if err := gormDB.Where("job_id = ?", jobID).
		Order("created_at ASC, id ASC").Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("chat: thread %s: %w", jobID, err)
	}
	return msgs, nil
}

// MarkThreadRead flips every unread message in the thread that the reader
// did not send. One batched update, idempotent.
func MarkThreadRead(gormDB *gorm.DB, hub *stream.Hub, jobID, readerID string) error {
	if readerID == "" {
		return identity.ErrUnauthenticated
	}

	j, err := job.Get(gormDB, jobID)
	if err != nil {
		return err
	}
	if !CanParticipate(j, readerID) {
		return fmt.Errorf("%w: %s on %s", ErrNotParticipant, readerID, jobID)
	}

	result := gormDB.Model(&models.ChatMessage{}).
		Where("job_id = ? AND sender_id <> ? AND is_read = ?", jobID, readerID, false).
		Update("is_read", true)
	if result.Error != nil {
		return fmt.Errorf("chat: mark thread read %s: %w", jobID, result.Error)
	}

	if hub != nil && result.RowsAffected > 0 {
		hub.Publish(stream.ChatTopic(jobID))
	}
	return nil
}
