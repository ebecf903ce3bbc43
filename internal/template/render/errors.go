package render

import "fmt"

// ParseErrorType represents the type of parsing error.
type ParseErrorType int

const (
	// UnclosedSection indicates a {{#name}} or {{^name}} without {{/name}}.
	UnclosedSection ParseErrorType = iota
	// MismatchedClose indicates a {{/name}} closing a different section.
	MismatchedClose
)

// String returns the string representation of the error type.
func (t ParseErrorType) String() string {
	switch t {
	case UnclosedSection:
		return "UnclosedSection"
	case MismatchedClose:
		return "MismatchedClose"
	default:
		return "Unknown"
	}
}

// ParseError represents a placeholder parsing error with location context.
type ParseError struct {
	// Type is the error type.
	Type ParseErrorType
	// Message is the error message.
	Message string
	// File is the file path where the error occurred (optional).
	File string
	// Line is the line number where the error occurred (1-indexed, 0 if unknown).
	Line int
	// Tag is the problematic tag text.
	Tag string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s (tag: %s)", e.File, e.Line, e.Message, e.Tag)
	}
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s (tag: %s)", e.Line, e.Message, e.Tag)
	}
	return fmt.Sprintf("%s (tag: %s)", e.Message, e.Tag)
}

// WithFile returns a copy of the error annotated with a file path.
func (e *ParseError) WithFile(file string) *ParseError {
	c := *e
	c.File = file
	return &c
}

func newParseError(typ ParseErrorType, message string, tag Tag, line int) *ParseError {
	return &ParseError{
		Type:    typ,
		Message: message,
		Line:    line,
		Tag:     tag.RawText,
	}
}
