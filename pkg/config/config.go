// Package config loads console configuration from a YAML file with
// environment variable overrides. The hosting environment is responsible
// for supplying a valid store URL and clinician identity; their absence is
// a startup failure, not something the console works around.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultPollIntervalSeconds   = 30
	defaultRequestTimeoutSeconds = 30
	defaultAuditDBPath           = ".mrv/audit.db"
)

// Config is the full console configuration.
type Config struct {
	APIBaseURL   string `yaml:"api_base_url"`
	UserID       string `yaml:"user_id"`
	ReviewerName string `yaml:"reviewer_name"`

	PollIntervalSeconds   int `yaml:"poll_interval_seconds"`
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds"`

	AuditDBPath string `yaml:"audit_db_path"`
	ChatEnabled bool   `yaml:"chat_enabled"`
}

// Load reads the config file at path (empty means "config.yaml", or
// $MRV_CONFIG if set), applies env overrides and fills defaults. A missing
// file is fine; missing required values are reported by Validate.
func Load(path string) (Config, error) {
	cfg := Config{ChatEnabled: true}

	if path == "" {
		path = "config.yaml"
		if envPath := os.Getenv("MRV_CONFIG"); envPath != "" {
			path = envPath
		}
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	envOverride(&cfg.APIBaseURL, "MRV_API_BASE_URL")
	envOverride(&cfg.UserID, "MRV_USER_ID")
	envOverride(&cfg.ReviewerName, "MRV_REVIEWER_NAME")
	envOverride(&cfg.AuditDBPath, "MRV_AUDIT_DB_PATH")
	envOverrideInt(&cfg.PollIntervalSeconds, "MRV_POLL_INTERVAL_SECONDS")
	envOverrideInt(&cfg.RequestTimeoutSeconds, "MRV_REQUEST_TIMEOUT_SECONDS")

	if cfg.PollIntervalSeconds <= 0 {
		cfg.PollIntervalSeconds = defaultPollIntervalSeconds
	}
	if cfg.RequestTimeoutSeconds <= 0 {
		cfg.RequestTimeoutSeconds = defaultRequestTimeoutSeconds
	}
	if cfg.AuditDBPath == "" {
		cfg.AuditDBPath = defaultAuditDBPath
	}
	if cfg.ReviewerName == "" {
		cfg.ReviewerName = cfg.UserID
	}

	return cfg, nil
}

// Validate reports missing required settings.
func (c Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("api_base_url is required (or set MRV_API_BASE_URL)")
	}
	if c.UserID == "" {
		return fmt.Errorf("user_id is required (or set MRV_USER_ID)")
	}
	return nil
}

// PollInterval returns the refresh cadence as a duration.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// RequestTimeout returns the per-request timeout as a duration.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func envOverride(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func envOverrideInt(target *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*target = n
		}
	}
}
