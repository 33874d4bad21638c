package models

import "time"

// Account roles.
const (
	RoleClient = "client"
	RoleWorker = "worker"
)

// UserAccount backs the identity provider. Role lives here, on the server,
// and is resolved per request rather than cached client-side.
type UserAccount struct {
	ID          string `gorm:"primaryKey;size:64"`
	DisplayName string `gorm:"size:128;not null"`
	Email       string `gorm:"size:128"`
	Role        string `gorm:"size:16;default:client"`
	Token       string `gorm:"size:128;uniqueIndex;not null"`
	CreatedAt   time.Time
}
