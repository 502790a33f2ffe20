package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the signal cropper.
type Config struct {
	// Input batch settings
	Input InputConfig `yaml:"input" json:"input"`

	// Output settings for saved crops and reports
	Output OutputConfig `yaml:"output" json:"output"`

	// Session settings (checkpointing, tagging)
	Session SessionConfig `yaml:"session" json:"session"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	// Terminal UI preferences
	UI UIConfig `yaml:"ui" json:"ui"`
}

// InputConfig holds input batch configuration.
type InputConfig struct {
	Directory string `yaml:"directory" json:"directory"`
	MaxPoints int    `yaml:"max_points" json:"max_points"`
}

// OutputConfig holds output directory configuration.
type OutputConfig struct {
	Directory string `yaml:"directory" json:"directory"`
}

// SessionConfig holds traversal and naming configuration.
type SessionConfig struct {
	CheckpointFile string `yaml:"checkpoint_file" json:"checkpoint_file"`
	HistoryFile    string `yaml:"history_file" json:"history_file"`
	Tag            string `yaml:"tag" json:"tag"`
}

// LoggingConfig holds logging configuration. When Dir is set a run-scoped
// log file is created inside it; File pins an exact path instead.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	Dir   string `yaml:"dir" json:"dir"`
	File  string `yaml:"file" json:"file"`
}

// UIConfig holds terminal UI preferences.
type UIConfig struct {
	DarkTheme bool `yaml:"dark_theme" json:"dark_theme"`
}

// DefaultConfig returns a Config instance with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			Directory: "./data",
			MaxPoints: 2_000_000,
		},
		Output: OutputConfig{
			Directory: "./cropped",
		},
		Session: SessionConfig{
			CheckpointFile: "./checkpoint.json",
			HistoryFile:    "", // defaults to <output>/history.jsonl
		},
		Logging: LoggingConfig{
			Level: "info",
			Dir:   "./logs",
		},
		UI: UIConfig{
			DarkTheme: false,
		},
	}
}

// Load builds the effective configuration: defaults, then the YAML file
// (explicit path or first found in the standard locations), then a .env
// file if present, then SIGCROP_* environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := cfg.LoadFromFile(path); err != nil {
		return nil, err
	}

	// A missing .env is the normal case, not an error.
	_ = godotenv.Load()

	if err := cfg.LoadFromEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile loads configuration from a YAML file. An empty path searches
// the standard locations; finding none is not an error.
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for a config file in standard locations.
func (c *Config) findConfigFile() string {
	locations := []string{
		".sigcrop.yaml",
		".sigcrop.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "sigcrop", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".sigcrop.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// LoadFromEnv loads configuration from environment variables.
func (c *Config) LoadFromEnv() error {
	if dir := os.Getenv("SIGCROP_INPUT_DIR"); dir != "" {
		c.Input.Directory = dir
	}
	if mp := os.Getenv("SIGCROP_MAX_POINTS"); mp != "" {
		val, err := strconv.Atoi(mp)
		if err != nil || val <= 0 {
			return fmt.Errorf("invalid SIGCROP_MAX_POINTS: %q", mp)
		}
		c.Input.MaxPoints = val
	}
	if dir := os.Getenv("SIGCROP_OUTPUT_DIR"); dir != "" {
		c.Output.Directory = dir
	}
	if cp := os.Getenv("SIGCROP_CHECKPOINT"); cp != "" {
		c.Session.CheckpointFile = cp
	}
	if tag := os.Getenv("SIGCROP_TAG"); tag != "" {
		c.Session.Tag = tag
	}
	if level := os.Getenv("SIGCROP_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if dark := os.Getenv("SIGCROP_DARK_THEME"); dark != "" {
		c.UI.DarkTheme = strings.ToLower(dark) == "true"
	}

	return nil
}

// HistoryFile returns the effective history ledger path.
func (c *Config) HistoryFile() string {
	if c.Session.HistoryFile != "" {
		return c.Session.HistoryFile
	}
	return filepath.Join(c.Output.Directory, "history.jsonl")
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	if c.Input.Directory == "" {
		errs = append(errs, errors.New("input directory is required"))
	}
	if c.Input.MaxPoints <= 0 {
		errs = append(errs, errors.New("max points must be positive"))
	}
	if c.Output.Directory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	if c.Session.CheckpointFile == "" {
		errs = append(errs, errors.New("checkpoint file path is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
