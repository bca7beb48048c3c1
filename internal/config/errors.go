package config

import "fmt"

// ConfigError reports malformed or self-contradictory configuration. It is
// surfaced to the user at load time; on a reload it aborts the reload and
// the previous live configuration is retained.
type ConfigError struct {
	Path   string // source file, when known
	Field  string // dotted locator of the offending field, when known
	Reason string
	Err    error // wrapped cause, when one exists
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	msg := "invalid configuration"
	if e.Field != "" {
		msg += ": " + e.Field
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Path != "" {
		msg += fmt.Sprintf(" (%s)", e.Path)
	}
	return msg
}

// Unwrap exposes the wrapped cause to errors.Is/As.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// newFieldError is the shorthand the validators use.
func newFieldError(field, reason string) *ConfigError {
	return &ConfigError{Field: field, Reason: reason}
}
