package db

import (
	"fmt"

	"github.com/salemkamoundev/Snay3ia/internal/models"
	"gorm.io/gorm"
)

// AllModels returns every GORM model in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&models.UserAccount{},
		&models.Job{},
		&models.Proposal{},
		&models.Notification{},
		&models.ChatMessage{},
		&models.WorkerProfile{},
		&models.Review{},
	}
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}
