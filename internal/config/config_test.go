package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	// Run from an empty directory so no stray taskdeck.yaml is picked up.
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TaskServiceURL != "http://localhost:5001" {
		t.Errorf("task service = %q", cfg.TaskServiceURL)
	}
	if cfg.UserServiceURL != "http://localhost:5000" {
		t.Errorf("user service = %q", cfg.UserServiceURL)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("timeout = %s, want 30s", cfg.HTTPTimeout)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("log level = %q, want info", cfg.LogLevel)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TASKDECK_TASK_SERVICE", "http://tasks.internal:8080")
	t.Setenv("TASKDECK_USER_ID", "42")
	t.Setenv("TASKDECK_HTTP_TIMEOUT", "5s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TaskServiceURL != "http://tasks.internal:8080" {
		t.Errorf("task service = %q", cfg.TaskServiceURL)
	}
	if cfg.UserID != 42 {
		t.Errorf("user id = %d, want 42", cfg.UserID)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Errorf("timeout = %s, want 5s", cfg.HTTPTimeout)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	yaml := "task_service_url: http://yaml-tasks:5001\nuser_id: 7\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TaskServiceURL != "http://yaml-tasks:5001" {
		t.Errorf("task service = %q", cfg.TaskServiceURL)
	}
	if cfg.UserID != 7 {
		t.Errorf("user id = %d, want 7", cfg.UserID)
	}
	// Fields absent from YAML fall back to defaults.
	if cfg.UserServiceURL != "http://localhost:5000" {
		t.Errorf("user service = %q", cfg.UserServiceURL)
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_PATH", "/nonexistent/taskdeck.yaml")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		TaskServiceURL: "http://localhost:5001",
		UserServiceURL: "http://localhost:5000",
		HTTPTimeout:    time.Second,
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty task URL", func(c *Config) { c.TaskServiceURL = "" }},
		{"no scheme", func(c *Config) { c.UserServiceURL = "localhost:5000" }},
		{"garbage URL", func(c *Config) { c.TaskServiceURL = "://bad" }},
		{"zero timeout", func(c *Config) { c.HTTPTimeout = 0 }},
		{"negative timeout", func(c *Config) { c.HTTPTimeout = -time.Second }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
