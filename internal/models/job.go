package models

import (
	"encoding/json"
	"time"
)

// Job is the canonical record of one reported breakdown.
type Job struct {
	ID          string `gorm:"primaryKey;size:32"`
	Description string `gorm:"type:text;not null"`
	MediaURLs   string `gorm:"type:json"`
	Status      string `gorm:"size:16;default:pending;index"`
	OwnerID     string `gorm:"size:64;not null;index"`
	OwnerEmail  string `gorm:"size:128"`

	// Set once by the acceptance transition.
	WorkerID      string `gorm:"size:64;index"`
	AcceptedPrice float64
	AcceptedAt    *time.Time

	// Written by the annotation dispatcher. AIState tracks the claim
	// lifecycle (pending, running, done, error) independently of Status.
	AIState      string `gorm:"size:16;default:pending;index"`
	AIResult     string `gorm:"type:json"`
	ErrorMessage string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Proposals []Proposal `gorm:"foreignKey:JobID"`
}

// AIAnalysis is the structured diagnosis produced by the vision model.
type AIAnalysis struct {
	RecommendedTools []string `json:"recommended_tools"`
	EstimatedPrice   string   `json:"estimated_price"`
	Advice           string   `json:"advice"`
}

// MediaURLList decodes the media_urls JSON column.
func (j *Job) MediaURLList() []string {
	if j.MediaURLs == "" {
		return nil
	}
	var urls []string
	if err := json.Unmarshal([]byte(j.MediaURLs), &urls); err != nil {
		return nil
	}
	return urls
}

// SetMediaURLList encodes urls into the media_urls JSON column.
func (j *Job) SetMediaURLList(urls []string) error {
	data, err := json.Marshal(urls)
	if err != nil {
		return err
	}
	j.MediaURLs = string(data)
	return nil
}

// Analysis decodes the ai_result JSON column, or nil if not yet analyzed.
func (j *Job) Analysis() *AIAnalysis {
	if j.AIResult == "" {
		return nil
	}
	var a AIAnalysis
	if err := json.Unmarshal([]byte(j.AIResult), &a); err != nil {
		return nil
	}
	return &a
}
