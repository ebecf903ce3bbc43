package app

import "fmt"

// AppErrorType represents the type of application error.
type AppErrorType int

const (
	// ValidationFailed indicates invalid generation options.
	ValidationFailed AppErrorType = iota
	// OutputDirFailed indicates the output directory is unusable.
	OutputDirFailed
	// ComposeFailed indicates template resolution or composition failed.
	ComposeFailed
	// LicenseFailed indicates the license could not be written.
	LicenseFailed
	// BootstrapFailed indicates repository bootstrapping failed.
	BootstrapFailed
	// SecretScanFailed indicates workflow files could not be scanned.
	SecretScanFailed
	// ListFailed indicates templates could not be listed.
	ListFailed
	// CheckFailed indicates templates could not be checked.
	CheckFailed
)

// String returns the string representation of the error type.
func (t AppErrorType) String() string {
	switch t {
	case ValidationFailed:
		return "ValidationFailed"
	case OutputDirFailed:
		return "OutputDirFailed"
	case ComposeFailed:
		return "ComposeFailed"
	case LicenseFailed:
		return "LicenseFailed"
	case BootstrapFailed:
		return "BootstrapFailed"
	case SecretScanFailed:
		return "SecretScanFailed"
	case ListFailed:
		return "ListFailed"
	case CheckFailed:
		return "CheckFailed"
	default:
		return "Unknown"
	}
}

// AppError represents an application-layer error.
type AppError struct {
	// Type is the error type.
	Type AppErrorType
	// Message is the error message.
	Message string
	// Cause is the underlying error.
	Cause error
}

// Error returns the error message.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new AppError.
func NewAppError(errType AppErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// NewValidationError creates a validation error.
func NewValidationError(message string, cause error) *AppError {
	return NewAppError(ValidationFailed, message, cause)
}
