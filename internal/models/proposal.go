package models

import "time"

// Proposal is one worker's price offer against an open job. The composite
// primary key (job_id, worker_id) is what enforces one-proposal-per-worker
// at the storage layer, so a duplicate submission can never append a second
// row regardless of how stale the submitter's snapshot was.
type Proposal struct {
	JobID       string  `gorm:"primaryKey;size:32"`
	WorkerID    string  `gorm:"primaryKey;size:64"`
	WorkerName  string  `gorm:"size:128"`
	Price       float64 `gorm:"not null"`
	Description string  `gorm:"type:text"`
	Status      string  `gorm:"size:16;default:pending"`
	CreatedAt   time.Time

	Job Job `gorm:"foreignKey:JobID"`
}
