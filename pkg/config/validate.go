package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ukaji3/jtf-go/pkg/logging"
)

var versionPattern = regexp.MustCompile(`^v[0-9]+(\.[0-9]+)+$`)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "logging.level").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d errors:\n", len(e.Errors))
	for _, err := range e.Errors {
		fmt.Fprintf(&sb, "  - %s\n", err.Error())
	}
	return sb.String()
}

// Validate checks the configuration and returns a ValidationError listing
// every invalid field, or nil.
func Validate(cfg *Config) error {
	var errs []FieldError

	if len(cfg.Validation.SupportedVersions) == 0 {
		errs = append(errs, FieldError{
			Field:   "validation.supported_versions",
			Message: "at least one version is required",
		})
	}
	seen := make(map[string]bool)
	for i, v := range cfg.Validation.SupportedVersions {
		field := fmt.Sprintf("validation.supported_versions[%d]", i)
		if !versionPattern.MatchString(v) {
			errs = append(errs, FieldError{Field: field, Message: fmt.Sprintf("%q is not of the form vX.Y.Z", v)})
		} else if seen[v] {
			errs = append(errs, FieldError{Field: field, Message: fmt.Sprintf("duplicate version %q", v)})
		}
		seen[v] = true
	}

	if _, err := logging.ParseLevel(cfg.Logging.Level); err != nil {
		errs = append(errs, FieldError{Field: "logging.level", Message: err.Error()})
	}
	if _, err := logging.ParseFormat(cfg.Logging.Format); err != nil {
		errs = append(errs, FieldError{Field: "logging.format", Message: err.Error()})
	}

	if cfg.Watch.Debounce < 0 || cfg.Watch.Debounce > time.Minute {
		errs = append(errs, FieldError{
			Field:   "watch.debounce",
			Message: fmt.Sprintf("must be between 0 and 1m, got %s", cfg.Watch.Debounce),
		})
	}

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}
