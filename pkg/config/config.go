// Package config loads the YAML configuration of the jtf command line tool.
package config

import (
	"log/slog"
	"time"

	"github.com/ukaji3/jtf-go/pkg/jtf"
	"github.com/ukaji3/jtf-go/pkg/logging"
)

// Config is the root configuration structure.
type Config struct {
	// Validation controls how documents are checked.
	Validation ValidationConfig `yaml:"validation"`

	// Logging controls the structured logger.
	Logging LoggingConfig `yaml:"logging"`

	// Watch controls "jtf validate --watch".
	Watch WatchConfig `yaml:"watch"`
}

// ValidationConfig contains document validation settings.
type ValidationConfig struct {
	// SupportedVersions is the allow-list for metadata "jtf". The first entry
	// is stamped into documents that declare no version.
	// Default: ["v1.1.9"]
	SupportedVersions []string `yaml:"supported_versions"`

	// CheckFormulas enables the lexical check of formula cells.
	// Default: false
	CheckFormulas bool `yaml:"check_formulas"`
}

// LoggingConfig contains logger settings.
type LoggingConfig struct {
	// Level is the minimum level: debug, info, warn or error.
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format: json or text.
	// Default: "text"
	Format string `yaml:"format"`
}

// WatchConfig contains file watching settings.
type WatchConfig struct {
	// Debounce is the quiet period after the last change event before a
	// file is validated again.
	// Default: 200ms
	Debounce time.Duration `yaml:"debounce"`
}

// Options converts the validation settings into document options.
func (c *Config) Options(logger *slog.Logger) jtf.Options {
	return jtf.Options{
		SupportedVersions: append([]string(nil), c.Validation.SupportedVersions...),
		CheckFormulas:     c.Validation.CheckFormulas,
		Logger:            logger,
	}
}

// LoggerConfig converts the logging settings into a logger configuration.
func (c *Config) LoggerConfig() logging.Config {
	return logging.Config{
		Level:  c.Logging.Level,
		Format: c.Logging.Format,
	}
}
