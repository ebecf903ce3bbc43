package source

import (
	"fmt"
	"strings"
)

// SourceErrorType represents the type of source error.
type SourceErrorType int

const (
	// LocalTemplatesNotFound indicates the template subtree is absent locally.
	LocalTemplatesNotFound SourceErrorType = iota
	// RemoteTemplatesNotFound indicates the remote probe confirmed absence.
	RemoteTemplatesNotFound
	// RemoteDownloadFailed indicates the archive could not be downloaded or
	// extracted.
	RemoteDownloadFailed
	// RemoteTemplatesMissingAfterDownload indicates the downloaded tree lacks
	// the requested subtree.
	RemoteTemplatesMissingAfterDownload
	// RemoteListFailed indicates the listing request returned a non-success
	// status.
	RemoteListFailed
	// RemoteListMalformed indicates the listing body was not an array of
	// entries.
	RemoteListMalformed
)

// NoLocalRoot is reported in place of the local root when the root itself
// does not exist.
const NoLocalRoot = "<no local templates root>"

// String returns the string representation of the error type.
func (t SourceErrorType) String() string {
	switch t {
	case LocalTemplatesNotFound:
		return "LocalTemplatesNotFound"
	case RemoteTemplatesNotFound:
		return "RemoteTemplatesNotFound"
	case RemoteDownloadFailed:
		return "RemoteDownloadFailed"
	case RemoteTemplatesMissingAfterDownload:
		return "RemoteTemplatesMissingAfterDownload"
	case RemoteListFailed:
		return "RemoteListFailed"
	case RemoteListMalformed:
		return "RemoteListMalformed"
	default:
		return "Unknown"
	}
}

// SourceError represents a template source error.
type SourceError struct {
	// Type is the error type classification.
	Type SourceErrorType
	// Message is the human-readable error message.
	Message string
	// Language is the requested language, empty for the global scope.
	Language string
	// Resource is the requested resource category, if any.
	Resource string
	// Path is the local directory or remote repository path involved.
	Path string
	// Root is the local templates root (or NoLocalRoot).
	Root string
	// Status is the HTTP status code for remote errors, 0 otherwise.
	Status int
	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}

	var details []string
	if e.Language != "" {
		details = append(details, fmt.Sprintf("language: %s", e.Language))
	} else {
		details = append(details, "language: (global)")
	}
	if e.Resource != "" {
		details = append(details, fmt.Sprintf("resource: %s", e.Resource))
	}
	if e.Root != "" {
		details = append(details, fmt.Sprintf("root: %s", e.Root))
	}
	if e.Path != "" {
		details = append(details, fmt.Sprintf("path: %s", e.Path))
	}
	if e.Status != 0 {
		details = append(details, fmt.Sprintf("status: %d", e.Status))
	}
	fmt.Fprintf(&b, " (%s)", strings.Join(details, ", "))
	return b.String()
}

// Unwrap returns the underlying cause for error wrapping.
func (e *SourceError) Unwrap() error {
	return e.Cause
}

// NewLocalNotFoundError creates a LocalTemplatesNotFound error.
func NewLocalNotFoundError(root, language, resource, path string) *SourceError {
	return &SourceError{
		Type:     LocalTemplatesNotFound,
		Message:  "local templates not found",
		Language: language,
		Resource: resource,
		Root:     root,
		Path:     path,
	}
}

// NewRemoteNotFoundError creates a RemoteTemplatesNotFound error.
func NewRemoteNotFoundError(language, resource, path string) *SourceError {
	return &SourceError{
		Type:     RemoteTemplatesNotFound,
		Message:  fmt.Sprintf("templates path %s does not exist in the remote repository", path),
		Language: language,
		Resource: resource,
		Path:     path,
	}
}

// NewDownloadError creates a RemoteDownloadFailed error.
func NewDownloadError(language, resource, path string, cause error) *SourceError {
	return &SourceError{
		Type:     RemoteDownloadFailed,
		Message:  "failed to download templates",
		Language: language,
		Resource: resource,
		Path:     path,
		Cause:    cause,
	}
}

// NewMissingAfterDownloadError creates a RemoteTemplatesMissingAfterDownload
// error.
func NewMissingAfterDownloadError(language, resource, path string) *SourceError {
	return &SourceError{
		Type:     RemoteTemplatesMissingAfterDownload,
		Message:  "no remote templates found in the downloaded archive",
		Language: language,
		Resource: resource,
		Path:     path,
	}
}

// NewListFailedError creates a RemoteListFailed error.
func NewListFailedError(language, resource, path string, status int, cause error) *SourceError {
	msg := "failed to list remote templates"
	if status != 0 {
		msg = fmt.Sprintf("failed to list remote templates: unexpected status %d", status)
	}
	return &SourceError{
		Type:     RemoteListFailed,
		Message:  msg,
		Language: language,
		Resource: resource,
		Path:     path,
		Status:   status,
		Cause:    cause,
	}
}

// NewListMalformedError creates a RemoteListMalformed error.
func NewListMalformedError(language, resource, path string, cause error) *SourceError {
	return &SourceError{
		Type:     RemoteListMalformed,
		Message:  "malformed remote template listing: expected an array of entries",
		Language: language,
		Resource: resource,
		Path:     path,
		Cause:    cause,
	}
}
