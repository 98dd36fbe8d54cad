package domain

import (
	"errors"
	"sort"
	"strings"
)

// Sentinel errors shared by repositories and services.
var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("authentication required")
	ErrInvalidInput    = errors.New("invalid input")
	ErrMissingLocation = errors.New("reference location is required for proximity search")
	ErrCancelled       = errors.New("operation cancelled")
)

// RepositoryError wraps a failure reported by the underlying store.
// Op names the repository operation that failed (e.g. "search events by proximity").
type RepositoryError struct {
	Op  string
	Err error
}

func (e *RepositoryError) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *RepositoryError) Unwrap() error { return e.Err }

// ValidationError carries per-field messages for redisplay on write paths.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is lets errors.Is(err, ErrInvalidInput) match validation failures.
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }
