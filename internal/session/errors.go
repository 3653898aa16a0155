package session

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports missing or malformed user input. It is recoverable: the
// caller re-prompts and the session is left untouched.
type ValidationError struct {
	Fields []string // offending input fields, when known
	Errors []string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: []string{field}, Errors: []string{msg}}
}

// IsValidationError reports whether err wraps a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NotFoundError reports an operation on a profile or record that does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
