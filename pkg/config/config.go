package config

import (
	"github.com/sdejongh/cmptree/pkg/models"
)

// Config represents the application configuration
type Config struct {
	Compare     CompareConfig     `yaml:"compare"`
	Performance PerformanceConfig `yaml:"performance"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// CompareConfig holds comparison settings
type CompareConfig struct {
	BufferSize       int  `yaml:"buffer_size"`        // Lockstep read chunk size
	ErrorsAsMismatch bool `yaml:"errors_as_mismatch"` // Unreadable files count as different
}

// PerformanceConfig holds performance-related settings
type PerformanceConfig struct {
	BandwidthLimit int64 `yaml:"bandwidth_limit"` // Bytes per second, 0 = unlimited
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format      string `yaml:"format"`       // "human" or "json"
	ShowMatches bool   `yaml:"show_matches"` // Print matching paths too
	Pretty      bool   `yaml:"pretty"`       // Colorize output
	Totals      bool   `yaml:"totals"`       // Print match counters
	Progress    bool   `yaml:"progress"`     // Show a progress bar on stderr
	Quiet       bool   `yaml:"quiet"`        // Suppress record output
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Format string `yaml:"format"` // "json" or "text"
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	File   string `yaml:"file"`   // Log file path (empty = no log file)
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Compare: CompareConfig{
			BufferSize:       models.DefaultChunkSize,
			ErrorsAsMismatch: false,
		},
		Performance: PerformanceConfig{
			BandwidthLimit: 0,
		},
		Output: OutputConfig{
			Format: "human",
		},
		Logging: LoggingConfig{
			Format: "text",
			Level:  "info",
			File:   "",
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Compare.BufferSize < 1024 {
		return &models.ValidationError{
			Field:   "compare.buffer_size",
			Message: "must be at least 1024 bytes",
		}
	}

	if c.Performance.BandwidthLimit < 0 {
		return &models.ValidationError{
			Field:   "performance.bandwidth_limit",
			Message: "cannot be negative",
		}
	}

	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'human' or 'json'",
		}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	return nil
}
