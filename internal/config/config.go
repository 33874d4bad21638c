// Package config provides YAML-based configuration loading for Snay3ia.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level Snay3ia configuration, loaded from snay3ia.yaml.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	DB      DBConfig      `yaml:"db"`
	Storage StorageConfig `yaml:"storage"`
	AI      AIConfig      `yaml:"ai"`
	Notify  NotifyConfig  `yaml:"notify"`
}

// HTTPConfig holds settings for the API server.
type HTTPConfig struct {
	Port    int    `yaml:"port"`
	BaseURL string `yaml:"base_url"` // external base URL, used to build media links
}

// DBConfig selects and configures the database backend.
type DBConfig struct {
	Driver   string `yaml:"driver"` // sqlite (default) or mysql
	Path     string `yaml:"path"`   // sqlite only
	User     string `yaml:"user"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
}

// StorageConfig configures the media object store.
type StorageConfig struct {
	Root        string `yaml:"root"`          // directory for stored files
	MaxUploadMB int    `yaml:"max_upload_mb"` // per-file size cap
}

// AIConfig configures the annotation bridge.
type AIConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Model           string `yaml:"model"`
	Endpoint        string `yaml:"endpoint"`
	APIKeyEnv       string `yaml:"api_key_env"` // env var holding the API key
	TimeoutSec      int    `yaml:"timeout_sec"`
	PollIntervalSec int    `yaml:"poll_interval_sec"`
	SweepCron       string `yaml:"sweep_cron"`      // 5-field cron for the stale-claim sweep
	ClaimTimeoutSec int    `yaml:"claim_timeout_sec"` // running claims older than this are released
}

// NotifyConfig configures the optional ops mirror for notifications.
type NotifyConfig struct {
	SlackWebhook string `yaml:"slack_webhook"`
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a Config with all defaults applied and no file read.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.BaseURL == "" {
		c.HTTP.BaseURL = fmt.Sprintf("http://localhost:%d", c.HTTP.Port)
	}
	if c.DB.Driver == "" {
		c.DB.Driver = "sqlite"
	}
	if c.DB.Driver == "sqlite" && c.DB.Path == "" {
		c.DB.Path = "snay3ia.db"
	}
	if c.DB.Driver == "mysql" {
		if c.DB.User == "" {
			c.DB.User = "root"
		}
		if c.DB.Host == "" {
			c.DB.Host = "127.0.0.1"
		}
		if c.DB.Port == 0 {
			c.DB.Port = 3306
		}
		if c.DB.Database == "" {
			c.DB.Database = "snay3ia"
		}
	}
	if c.Storage.Root == "" {
		c.Storage.Root = "media"
	}
	if c.Storage.MaxUploadMB == 0 {
		c.Storage.MaxUploadMB = 10
	}
	if c.AI.Model == "" {
		c.AI.Model = "gemini-2.5-flash"
	}
	if c.AI.Endpoint == "" {
		c.AI.Endpoint = "https://generativelanguage.googleapis.com/v1beta"
	}
	if c.AI.APIKeyEnv == "" {
		c.AI.APIKeyEnv = "GEMINI_API_KEY"
	}
	if c.AI.TimeoutSec == 0 {
		c.AI.TimeoutSec = 60
	}
	if c.AI.PollIntervalSec == 0 {
		c.AI.PollIntervalSec = 5
	}
	if c.AI.SweepCron == "" {
		c.AI.SweepCron = "*/5 * * * *"
	}
	if c.AI.ClaimTimeoutSec == 0 {
		c.AI.ClaimTimeoutSec = 300
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	switch c.DB.Driver {
	case "sqlite", "mysql":
	default:
		errs = append(errs, fmt.Sprintf("db.driver %q is not supported (sqlite, mysql)", c.DB.Driver))
	}
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Sprintf("http.port %d is out of range", c.HTTP.Port))
	}
	if c.Storage.MaxUploadMB < 0 {
		errs = append(errs, "storage.max_upload_mb must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: invalid: %s", strings.Join(errs, "; "))
	}
	return nil
}
