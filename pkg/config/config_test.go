package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Input.MaxPoints != 2_000_000 {
		t.Errorf("Expected default max points 2000000, got %d", cfg.Input.MaxPoints)
	}
	if cfg.Output.Directory != "./cropped" {
		t.Errorf("Expected default output ./cropped, got %s", cfg.Output.Directory)
	}
	if cfg.Session.CheckpointFile != "./checkpoint.json" {
		t.Errorf("Expected default checkpoint ./checkpoint.json, got %s", cfg.Session.CheckpointFile)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Expected default log level info, got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SIGCROP_INPUT_DIR", "/tmp/signals")
	t.Setenv("SIGCROP_MAX_POINTS", "5000")
	t.Setenv("SIGCROP_OUTPUT_DIR", "/tmp/crops")
	t.Setenv("SIGCROP_CHECKPOINT", "/tmp/cp.json")
	t.Setenv("SIGCROP_TAG", "nightly")
	t.Setenv("SIGCROP_LOG_LEVEL", "debug")
	t.Setenv("SIGCROP_DARK_THEME", "true")

	cfg := DefaultConfig()
	if err := cfg.LoadFromEnv(); err != nil {
		t.Fatalf("Failed to load from environment: %v", err)
	}

	if cfg.Input.Directory != "/tmp/signals" {
		t.Errorf("Expected input /tmp/signals, got %s", cfg.Input.Directory)
	}
	if cfg.Input.MaxPoints != 5000 {
		t.Errorf("Expected max points 5000, got %d", cfg.Input.MaxPoints)
	}
	if cfg.Output.Directory != "/tmp/crops" {
		t.Errorf("Expected output /tmp/crops, got %s", cfg.Output.Directory)
	}
	if cfg.Session.Tag != "nightly" {
		t.Errorf("Expected tag nightly, got %s", cfg.Session.Tag)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected log level debug, got %s", cfg.Logging.Level)
	}
	if !cfg.UI.DarkTheme {
		t.Error("Expected dark theme enabled")
	}
}

func TestLoadFromEnvRejectsBadMaxPoints(t *testing.T) {
	t.Setenv("SIGCROP_MAX_POINTS", "not-a-number")

	cfg := DefaultConfig()
	if err := cfg.LoadFromEnv(); err == nil {
		t.Error("Expected an error for a non-numeric SIGCROP_MAX_POINTS")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
input:
  directory: /data/run7
  max_points: 10000
output:
  directory: /data/run7-crops
session:
  tag: run7
ui:
  dark_theme: true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config fixture: %v", err)
	}

	cfg := DefaultConfig()
	if err := cfg.LoadFromFile(path); err != nil {
		t.Fatalf("Failed to load config file: %v", err)
	}

	if cfg.Input.Directory != "/data/run7" {
		t.Errorf("Expected input /data/run7, got %s", cfg.Input.Directory)
	}
	if cfg.Input.MaxPoints != 10000 {
		t.Errorf("Expected max points 10000, got %d", cfg.Input.MaxPoints)
	}
	if cfg.Session.Tag != "run7" {
		t.Errorf("Expected tag run7, got %s", cfg.Session.Tag)
	}
	if !cfg.UI.DarkTheme {
		t.Error("Expected dark theme enabled")
	}
	// Untouched keys keep their defaults
	if cfg.Session.CheckpointFile != "./checkpoint.json" {
		t.Errorf("Expected default checkpoint, got %s", cfg.Session.CheckpointFile)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Input.MaxPoints = 0
	cfg.Logging.Level = "loud"

	if err := cfg.Validate(); err == nil {
		t.Error("Expected validation errors")
	}
}

func TestHistoryFile(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.HistoryFile(); got != filepath.Join("./cropped", "history.jsonl") {
		t.Errorf("Expected default history under the output dir, got %s", got)
	}

	cfg.Session.HistoryFile = "/tmp/audit.jsonl"
	if got := cfg.HistoryFile(); got != "/tmp/audit.jsonl" {
		t.Errorf("Expected explicit history path, got %s", got)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "saved.yaml")

	cfg := DefaultConfig()
	cfg.Session.Tag = "saved"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	loaded := DefaultConfig()
	if err := loaded.LoadFromFile(path); err != nil {
		t.Fatalf("Failed to reload config: %v", err)
	}
	if loaded.Session.Tag != "saved" {
		t.Errorf("Expected reloaded tag saved, got %s", loaded.Session.Tag)
	}
}
