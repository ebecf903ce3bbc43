package config

import "fmt"

// ConfigErrorType represents the type of configuration error.
type ConfigErrorType int

const (
	// ConfigNotFound indicates an explicitly requested file was not found.
	ConfigNotFound ConfigErrorType = iota
	// ConfigInvalid indicates a source could not be read or decoded.
	ConfigInvalid
	// ConfigValidationFailed indicates the merged configuration is invalid.
	ConfigValidationFailed
)

// String returns the string representation of the error type.
func (t ConfigErrorType) String() string {
	switch t {
	case ConfigNotFound:
		return "NotFound"
	case ConfigInvalid:
		return "Invalid"
	case ConfigValidationFailed:
		return "ValidationFailed"
	default:
		return "Unknown"
	}
}

// ConfigError represents a configuration-related error.
type ConfigError struct {
	// Type is the error type.
	Type ConfigErrorType
	// Message is the error message.
	Message string
	// Source is the file path or layer ("defaults", "environment").
	Source string
	// Field is the configuration key that caused the error.
	Field string
	// Cause is the underlying error if any.
	Cause error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Source != "" {
		msg += " in " + e.Source
	}
	if e.Field != "" {
		msg += fmt.Sprintf(" [field: %s]", e.Field)
	}
	msg += ": " + e.Message
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause error.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// NewConfigErrorWithField creates a validation error for a config key.
func NewConfigErrorWithField(typ ConfigErrorType, source, field, message string) *ConfigError {
	return &ConfigError{
		Type:    typ,
		Source:  source,
		Field:   field,
		Message: message,
	}
}

// NewConfigErrorWithCause creates a new ConfigError with a cause.
func NewConfigErrorWithCause(typ ConfigErrorType, source, message string, cause error) *ConfigError {
	return &ConfigError{
		Type:    typ,
		Source:  source,
		Message: message,
		Cause:   cause,
	}
}
