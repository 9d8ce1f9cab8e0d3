package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "search.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	t.Setenv("SEARCH_CONFIG_PATH", path)
}

func TestLoadSearchConfig_FromFile(t *testing.T) {
	writeConfig(t, `
defaults:
  limit: 25
  threshold: 0.6

backend:
  timeout_seconds: 15
`)

	cfg, err := LoadSearchConfig()
	if err != nil {
		t.Fatalf("LoadSearchConfig failed: %v", err)
	}

	if cfg.Defaults.Limit != 25 {
		t.Errorf("expected limit 25, got %d", cfg.Defaults.Limit)
	}
	if cfg.Defaults.Threshold != 0.6 {
		t.Errorf("expected threshold 0.6, got %g", cfg.Defaults.Threshold)
	}
	if cfg.Backend.TimeoutSeconds != 15 {
		t.Errorf("expected timeout 15, got %d", cfg.Backend.TimeoutSeconds)
	}
}

func TestLoadSearchConfig_MissingFile_UsesDefaults(t *testing.T) {
	t.Setenv("SEARCH_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := LoadSearchConfig()
	if err != nil {
		t.Fatalf("LoadSearchConfig failed: %v", err)
	}

	if cfg.Defaults.Limit != 10 {
		t.Errorf("expected default limit 10, got %d", cfg.Defaults.Limit)
	}
	if cfg.Defaults.Threshold != 0.7 {
		t.Errorf("expected default threshold 0.7, got %g", cfg.Defaults.Threshold)
	}
	if cfg.Backend.TimeoutSeconds != 10 {
		t.Errorf("expected default timeout 10, got %d", cfg.Backend.TimeoutSeconds)
	}
}

func TestLoadSearchConfig_PartialFile_FillsDefaults(t *testing.T) {
	writeConfig(t, `
defaults:
  limit: 50
`)

	cfg, err := LoadSearchConfig()
	if err != nil {
		t.Fatalf("LoadSearchConfig failed: %v", err)
	}

	if cfg.Defaults.Limit != 50 {
		t.Errorf("expected limit 50, got %d", cfg.Defaults.Limit)
	}
	if cfg.Defaults.Threshold != 0.7 {
		t.Errorf("expected default threshold 0.7, got %g", cfg.Defaults.Threshold)
	}
}

func TestLoadSearchConfig_InvalidThreshold(t *testing.T) {
	writeConfig(t, `
defaults:
  threshold: 1.5
`)

	if _, err := LoadSearchConfig(); err == nil {
		t.Error("expected error for threshold above 1.0")
	}
}

func TestLoadSearchConfig_InvalidYAML(t *testing.T) {
	writeConfig(t, "defaults: [not a map")

	if _, err := LoadSearchConfig(); err == nil {
		t.Error("expected error for malformed YAML")
	}
}
