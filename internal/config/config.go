package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = "bulkutil.yaml"

// Config represents the top-level bulkutil.yaml configuration.
type Config struct {
	Output     OutputConfig     `yaml:"output"`
	Report     ReportConfig     `yaml:"report"`
	Validation ValidationConfig `yaml:"validation"`
	Logging    LoggingConfig    `yaml:"logging"`
	RunLog     string           `yaml:"run_log,omitempty"` // CSV path; empty disables
}

// OutputConfig controls written archives.
type OutputConfig struct {
	DateSuffix string `yaml:"date_suffix"` // 8 digits, e.g. "20200101"
}

// ReportConfig controls the validation report.
type ReportConfig struct {
	MaxPerCategory int `yaml:"max_per_category"` // 0 = unlimited
}

// ValidationConfig tunes the validator.
type ValidationConfig struct {
	ProgressEvery         int  `yaml:"progress_every"`
	CoverageValidRowsOnly bool `yaml:"coverage_valid_rows_only"`
}

// LoggingConfig selects the log level and format.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads a bulkutil.yaml file from disk. Fields absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault is like Load but returns Default when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with the built-in defaults.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			DateSuffix: "20200101",
		},
		Report: ReportConfig{
			MaxPerCategory: 20,
		},
		Validation: ValidationConfig{
			ProgressEvery: 10000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
