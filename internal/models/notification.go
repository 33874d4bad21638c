package models

import "time"

// Notification is one entry in a recipient's inbox. Rows are append-only;
// the only permitted mutation is the owner flipping Read false→true.
type Notification struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	RecipientID string `gorm:"size:64;not null;index"`
	Message     string `gorm:"type:text;not null"`
	Type        string `gorm:"size:16"`
	JobID       string `gorm:"size:32"`
	Read        bool   `gorm:"column:is_read;default:false;index"`
	CreatedAt   time.Time
}
