// Package config provides configuration loading and validation for the CLI
// and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/agent-registration/internal/classify"
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Server
	Port        int    `json:"port,omitempty"`         // HTTP listen port
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL

	// Limits
	MaxUploadMB int `json:"max_upload_mb,omitempty"` // Maximum accepted PDF upload size

	// Classification tuning
	ConsensusWindow  int `json:"consensus_window,omitempty"`  // Neighbor fields inspected on each side
	SkipThreshold    int `json:"skip_threshold,omitempty"`    // Typed neighbors needed to rescue a skip
	GenericThreshold int `json:"generic_threshold,omitempty"` // Typed neighbors needed to override a generic target

	// Behavior
	Verbose bool `json:"verbose,omitempty"` // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.MaxUploadMB < 0 {
		return fmt.Errorf("config error: 'max_upload_mb' must be non-negative")
	}
	if c.ConsensusWindow < 0 {
		return fmt.Errorf("config error: 'consensus_window' must be non-negative")
	}
	if c.SkipThreshold < 0 {
		return fmt.Errorf("config error: 'skip_threshold' must be non-negative")
	}
	if c.GenericThreshold < 0 {
		return fmt.Errorf("config error: 'generic_threshold' must be non-negative")
	}
	return nil
}

// MergeWithDefaults returns a new Config with unset fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.MaxUploadMB == 0 {
		result.MaxUploadMB = defaults.MaxUploadMB
	}
	if result.ConsensusWindow == 0 {
		result.ConsensusWindow = defaults.ConsensusWindow
	}
	if result.SkipThreshold == 0 {
		result.SkipThreshold = defaults.SkipThreshold
	}
	if result.GenericThreshold == 0 {
		result.GenericThreshold = defaults.GenericThreshold
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	tuning := classify.DefaultConfig()
	return Config{
		Port:             8080,
		MaxUploadMB:      25,
		ConsensusWindow:  tuning.Window,
		SkipThreshold:    tuning.SkipThreshold,
		GenericThreshold: tuning.GenericThreshold,
	}
}

// Consensus returns the classification tuning as a classifier config.
func (c *Config) Consensus() classify.Config {
	return classify.Config{
		Window:           c.ConsensusWindow,
		SkipThreshold:    c.SkipThreshold,
		GenericThreshold: c.GenericThreshold,
	}
}
