package models

import "time"

// ChatMessage is one message in a job's thread. Messages are immutable once
// written; CreatedAt is server-assigned and is the sole sort key. Read may
// only flip false→true, and only by a participant other than the sender.
type ChatMessage struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"`
	JobID      string `gorm:"size:32;not null;index"`
	SenderID   string `gorm:"size:64;not null"`
	SenderName string `gorm:"size:128"`
	Text       string `gorm:"type:text;not null"`
	Read       bool   `gorm:"column:is_read;default:false;index"`
	CreatedAt  time.Time
}
