// Package profile provides worker profiles and reviews.
package profile

import (
	"errors"
	"fmt"
	"time"

	"github.com/salemkamoundev/Snay3ia/internal/models"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a worker profile does not exist.
var ErrNotFound = errors.New("profile: not found")

// ErrValidation is returned for malformed review input.
var ErrValidation = errors.New("profile: validation")

// Get returns a worker's public profile with reviews, newest first.
func Get(gormDB *gorm.DB, workerID string) (*models.WorkerProfile, error) {
	if workerID == "" {
		return nil, fmt.Errorf("profile: workerID is required")
	}
	var p models.WorkerProfile
	err := gormDB.Preload("Reviews", func(q *gorm.DB) *gorm.DB {
		return q.Order("created_at DESC")
	}).Where("user_id = ?", workerID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, workerID)
		}
		return nil, fmt.Errorf("profile: get %s: %w", workerID, err)
	}
	if p.DisplayName == "" {
		p.DisplayName = "Artisan"
	}
	return &p, nil
}

// ReviewOpts holds parameters for appending a review.
type ReviewOpts struct {
	WorkerID    string
	Author      string
	Comment     string
	AudioURL    string
	Rating      int // 1..5
	IsSatisfied bool
}

// AddReview appends a review and recomputes the worker's aggregate rating
// in the same transaction.
func AddReview(gormDB *gorm.DB, opts ReviewOpts) (*models.Review, error) {
	if opts.WorkerID == "" {
		return nil, fmt.Errorf("profile: workerID is required")
	}
	if opts.Rating < 1 || opts.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be 1..5, got %d", ErrValidation, opts.Rating)
	}

	review := models.Review{
		WorkerID:    opts.WorkerID,
		Author:      opts.Author,
		Comment:     opts.Comment,
		AudioURL:    opts.AudioURL,
		Rating:      opts.Rating,
		IsSatisfied: opts.IsSatisfied,
		CreatedAt:   time.Now(),
	}

	err := gormDB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.WorkerProfile{}).Where("user_id = ?", opts.WorkerID).Count(&count).Error; err != nil {
			return fmt.Errorf("profile: check worker %s: %w", opts.WorkerID, err)
		}
		if count == 0 {
			return fmt.Errorf("%w: %s", ErrNotFound, opts.WorkerID)
		}

		if err := tx.Create(&review).Error; err != nil {
			return fmt.Errorf("profile: add review for %s: %w", opts.WorkerID, err)
		}

		var avg float64
		if err := tx.Model(&models.Review{}).Where("worker_id = ?", opts.WorkerID).
			Select("AVG(rating)").Scan(&avg).Error; err != nil {
			return fmt.Errorf("profile: recompute rating for %s: %w", opts.WorkerID, err)
		}
		if err := tx.Model(&models.WorkerProfile{}).Where("user_id = ?", opts.WorkerID).
			Update("rating", avg).Error; err != nil {
			return fmt.Errorf("profile: update rating for %s: %w", opts.WorkerID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}
