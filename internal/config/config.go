// Package config provides configuration management for the dataset generator.
package config

import (
	"errors"
	"fmt"
	"os"

	"m3lsprep/pkg/metadata"

	"gopkg.in/yaml.v3"
)

// Defaults used when no configuration file is given.
const (
	DefaultInputDir      = "M3LS dataset"
	DefaultOutputPath    = "dat/keywords.jsonl"
	DefaultFormat        = "jsonl"
	DefaultLogLevel      = "info"
	DefaultProgressEvery = 1000
)

// Missing articles directory policies.
const (
	OnMissingAbort = "abort"
	OnMissingSkip  = "skip"
)

// Configuration validation errors.
var (
	ErrMissingInputDir      = errors.New("input.dir is required")
	ErrMissingOutputPath    = errors.New("output.path is required")
	ErrInvalidOutputFormat  = errors.New("output.format must be 'jsonl'")
	ErrInvalidMissingPolicy = errors.New("extraction.on_missing_articles must be 'abort' or 'skip'")
	ErrInvalidLogLevel      = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidProgressEvery = errors.New("logging.progress_every must be non-negative")
)

// Config represents the complete generator configuration.
type Config struct {
	Input      InputConfig      `yaml:"input"`
	Output     OutputConfig     `yaml:"output"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// InputConfig locates the archives.
type InputConfig struct {
	Dir string `yaml:"dir"`
}

// OutputConfig defines output behavior.
type OutputConfig struct {
	Path         string `yaml:"path"`
	Format       string `yaml:"format"`
	CreateBackup bool   `yaml:"create_backup"`
	Manifest     bool   `yaml:"manifest"`
}

// ExtractionConfig controls how archives and articles are read.
type ExtractionConfig struct {
	OnMissingArticles string `yaml:"on_missing_articles"`
	CleanHTML         bool   `yaml:"clean_html"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level         string `yaml:"level"`
	File          string `yaml:"file"`
	ProgressEvery int    `yaml:"progress_every"`
	ShowProgress  bool   `yaml:"show_progress"`
}

// Default returns the configuration that reproduces a plain run with no settings.
func Default() *Config {
	return &Config{
		Input: InputConfig{Dir: DefaultInputDir},
		Output: OutputConfig{
			Path:     DefaultOutputPath,
			Format:   DefaultFormat,
			Manifest: true,
		},
		Extraction: ExtractionConfig{OnMissingArticles: OnMissingAbort},
		Logging: LoggingConfig{
			Level:         DefaultLogLevel,
			ShowProgress:  true,
			ProgressEvery: DefaultProgressEvery,
		},
	}
}

// LoadConfig loads configuration from a YAML file. Keys absent from the file keep their defaults.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to a YAML file.
func (c *Config) SaveConfig(filepath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Input.Dir == "" {
		return ErrMissingInputDir
	}

	if c.Output.Path == "" {
		return ErrMissingOutputPath
	}

	if c.Output.Format != DefaultFormat {
		return ErrInvalidOutputFormat
	}

	switch c.Extraction.OnMissingArticles {
	case OnMissingAbort, OnMissingSkip:
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidMissingPolicy, c.Extraction.OnMissingArticles)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	if c.Logging.ProgressEvery < 0 {
		return ErrInvalidProgressEvery
	}

	return nil
}

// SkipMissingArticles reports whether source directories without an articles
// directory are skipped instead of aborting the run.
func (c *Config) SkipMissingArticles() bool {
	return c.Extraction.OnMissingArticles == OnMissingSkip
}

// ManifestPath returns the sidecar manifest path for the configured output.
func (c *Config) ManifestPath() string {
	return metadata.PathFor(c.Output.Path)
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Input: %s, Output: %s, OnMissingArticles: %s}",
		c.Input.Dir,
		c.Output.Path,
		c.Extraction.OnMissingArticles,
	)
}
