package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrJobNotFound is returned when an operation addresses an unknown posting id.
	ErrJobNotFound = errors.New("job not found")
	// ErrValidation marks malformed or out-of-range input. Match it with errors.Is.
	ErrValidation = errors.New("validation failed")
	// ErrStoreUnavailable marks a failed call into the underlying record store.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (f FieldError) String() string {
	return f.Field + " " + f.Message
}

// ValidationError collects every rejected field of a request.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError returns a ValidationError holding a single field error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) Addf(field, format string, args ...any) {
	e.Add(field, fmt.Sprintf(format, args...))
}

// OrNil returns nil when no field was rejected, so callers can return it directly.
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.String())
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// StoreError wraps a driver failure so that it matches ErrStoreUnavailable
// while keeping the original cause in the chain.
func StoreError(op string, err error) error {
	return fmt.Errorf("failed to %s: %w: %w", op, ErrStoreUnavailable, err)
}
