// Package job provides job lifecycle operations.
package job

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/salemkamoundev/Snay3ia/internal/models"
	"gorm.io/gorm"
)

// Job status constants.
const (
	StatusPending   = "pending"
	StatusAnalyzing = "analyzing"
	StatusAssigned  = "assigned"
	StatusCompleted = "completed"
	StatusError     = "error"
)

// Annotation claim states (ai_state column).
const (
	AIPending = "pending"
	AIRunning = "running"
	AIDone    = "done"
	AIError   = "error"
)

// ErrNotFound is returned when a job does not exist.
var ErrNotFound = errors.New("job: not found")

// ValidTransitions maps each status to its valid next statuses. A job in
// "error" (failed AI analysis) still accepts proposals and assignment.
var ValidTransitions = map[string][]string{
	StatusPending:   {StatusAnalyzing},
	StatusAnalyzing: {StatusAssigned, StatusError},
	StatusError:     {StatusAssigned},
	StatusAssigned:  {StatusCompleted},
}

// OpenStatuses are the statuses in which a job collects proposals.
var OpenStatuses = []string{StatusAnalyzing, StatusError}

// IsOpen reports whether a job in the given status accepts proposals.
func IsOpen(status string) bool {
	for _, s := range OpenStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// GenerateID creates a unique job ID in job-xxxxxxxx format (8-char hex).
func GenerateID() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("job: generate ID: %w", err)
	}
	return "job-" + hex.EncodeToString(b), nil
}

// generateUniqueID generates an ID and retries once on collision.
func generateUniqueID(gormDB *gorm.DB) (string, error) {
	for i := 0; i < 2; i++ {
		id, err := GenerateID()
		if err != nil {
			return "", err
		}
		var count int64
		if err := gormDB.Model(&models.Job{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return "", fmt.Errorf("job: check ID uniqueness: %w", err)
		}
		if count == 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("job: failed to generate unique ID after retries")
}

// Get retrieves a job by ID, preloading its proposals.
func Get(gormDB *gorm.DB, id string) (*models.Job, error) {
	var j models.Job
	if err := gormDB.Preload("Proposals").Where("id = ?", id).First(&j).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("job: get %s: %w", id, err)
	}
	return &j, nil
}

// ListOpen returns jobs currently collecting proposals, newest first.
// Jobs whose AI analysis failed stay in the feed; the diagnosis is
// informational, not a gate.
func ListOpen(gormDB *gorm.DB) ([]models.Job, error) {
	var jobs []models.Job
	if err := gormDB.Preload("Proposals").Where("status IN ?", OpenStatuses).
		Order("created_at DESC").Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("job: list open: %w", err)
	}
	return jobs, nil
}

// ListForOwner returns all jobs created by ownerID, newest first.
func ListForOwner(gormDB *gorm.DB, ownerID string) ([]models.Job, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("job: ownerID is required")
	}
	var jobs []models.Job
	if err := gormDB.Preload("Proposals").Where("owner_id = ?", ownerID).
		Order("created_at DESC").Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("job: list for owner %s: %w", ownerID, err)
	}
	return jobs, nil
}

// ListForWorker returns all jobs assigned to workerID, newest first.
func ListForWorker(gormDB *gorm.DB, workerID string) ([]models.Job, error) {
	if workerID == "" {
		return nil, fmt.Errorf("job: workerID is required")
	}
	var jobs []models.Job
	if err := gormDB.Preload("Proposals").Where("worker_id = ?", workerID).
		Order("created_at DESC").Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("job: list for worker %s: %w", workerID, err)
	}
	return jobs, nil
}
