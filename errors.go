package cyto

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors for common failure cases.
var (
	// ErrInvalidElement is returned when wire input does not conform to the
	// element schema (unknown field, wrong value type).
	ErrInvalidElement = errors.New("cyto: invalid element")

	// ErrBadPattern is returned when a filter pattern does not compile as a
	// regular expression.
	ErrBadPattern = errors.New("cyto: bad filter pattern")
)

// SchemaError represents a schema violation found while decoding wire input.
type SchemaError struct {
	Group   string // "nodes" or "edges", if known
	Field   string // The offending field name
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("cyto: element schema error")
	if e.Group != "" {
		b.WriteString(" in group ")
		b.WriteString(e.Group)
	}
	if e.Field != "" {
		b.WriteString(" on field ")
		b.WriteString(e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for SchemaError.
// This allows errors.Is(schemaErr, ErrInvalidElement) to return true.
func (e *SchemaError) Is(target error) bool {
	return target == ErrInvalidElement
}

// NewSchemaError creates a new SchemaError.
func NewSchemaError(group, field, message string, cause error) *SchemaError {
	return &SchemaError{Group: group, Field: field, Message: message, Cause: cause}
}

// IsSchemaError returns true if the error is a SchemaError.
func IsSchemaError(err error) bool {
	if err == nil {
		return false
	}
	var e *SchemaError
	return errors.As(err, &e) || errors.Is(err, ErrInvalidElement)
}

// PatternError represents a regular expression that failed to compile.
type PatternError struct {
	Field   string // The attribute key the pattern was given for
	Pattern string
	Cause   error
}

// Error implements the error interface.
func (e *PatternError) Error() string {
	return fmt.Sprintf("cyto: bad filter pattern %q for field %s: %v", e.Pattern, e.Field, e.Cause)
}

// Unwrap returns the underlying error.
func (e *PatternError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for PatternError.
func (e *PatternError) Is(target error) bool {
	return target == ErrBadPattern
}

// NewPatternError creates a new PatternError.
func NewPatternError(field, pattern string, cause error) *PatternError {
	return &PatternError{Field: field, Pattern: pattern, Cause: cause}
}

// IsBadPattern returns true if the error is a PatternError.
func IsBadPattern(err error) bool {
	if err == nil {
		return false
	}
	var e *PatternError
	return errors.As(err, &e) || errors.Is(err, ErrBadPattern)
}
