package main

import (
	"fmt"

	"github.com/salemkamoundev/Snay3ia/internal/config"
	"github.com/salemkamoundev/Snay3ia/internal/db"
	"gorm.io/gorm"
)

// openFromConfig loads the config file and opens the configured database.
func openFromConfig(configPath string) (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	gormDB, err := db.Open(db.Options{
		Driver:   cfg.DB.Driver,
		Path:     cfg.DB.Path,
		User:     cfg.DB.User,
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		Database: cfg.DB.Database,
	})
	if err != nil {
		return nil, nil, err
	}
	return cfg, gormDB, nil
}

// truncate shortens s to max runes with an ellipsis.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
