package models

import "time"

// WorkerProfile is the public-facing record of one repair worker. Rating is
// the aggregate over Reviews, recomputed on every append.
type WorkerProfile struct {
	UserID        string `gorm:"primaryKey;size:64"`
	DisplayName   string `gorm:"size:128"`
	Specialty     string `gorm:"size:64"`
	Rating        float64
	CompletedJobs int
	UpdatedAt     time.Time

	Reviews []Review `gorm:"foreignKey:WorkerID;references:UserID"`
}

// Review is one client's feedback on a worker. Append-only.
type Review struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	WorkerID    string `gorm:"size:64;not null;index"`
	Author      string `gorm:"size:128"`
	Comment     string `gorm:"type:text"`
	AudioURL    string `gorm:"size:512"`
	Rating      int
	IsSatisfied bool
	CreatedAt   time.Time
}
