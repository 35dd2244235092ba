package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
api_base_url: https://reports.example.com
user_id: doc-9
reviewer_name: Dr. Lee
poll_interval_seconds: 15
chat_enabled: false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "https://reports.example.com" || cfg.UserID != "doc-9" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.ReviewerName != "Dr. Lee" {
		t.Errorf("reviewer = %q", cfg.ReviewerName)
	}
	if cfg.PollInterval() != 15*time.Second {
		t.Errorf("poll interval = %v", cfg.PollInterval())
	}
	if cfg.RequestTimeout() != 30*time.Second {
		t.Errorf("request timeout default = %v", cfg.RequestTimeout())
	}
	if cfg.ChatEnabled {
		t.Error("chat_enabled: false not honored")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PollIntervalSeconds != 30 || cfg.AuditDBPath != ".mrv/audit.db" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if !cfg.ChatEnabled {
		t.Error("chat should default to enabled")
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation failure without store URL and identity")
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
api_base_url: https://file.example.com
user_id: from-file
`)
	t.Setenv("MRV_API_BASE_URL", "https://env.example.com")
	t.Setenv("MRV_POLL_INTERVAL_SECONDS", "5")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "https://env.example.com" {
		t.Errorf("env override lost: %q", cfg.APIBaseURL)
	}
	if cfg.UserID != "from-file" {
		t.Errorf("file value lost: %q", cfg.UserID)
	}
	if cfg.PollIntervalSeconds != 5 {
		t.Errorf("poll interval = %d", cfg.PollIntervalSeconds)
	}
}

func TestReviewerNameFallsBackToUserID(t *testing.T) {
	path := writeConfig(t, `
api_base_url: https://reports.example.com
user_id: doc-9
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ReviewerName != "doc-9" {
		t.Errorf("reviewer = %q, want user ID fallback", cfg.ReviewerName)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "api_base_url: [unclosed")
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}
