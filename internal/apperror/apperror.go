// Package apperror defines the error taxonomy shared by the store,
// repositories and services.
//
// Three kinds of failure reach callers:
//
//	ErrValidation → a record broke a schema rule (Field names the field)
//	ErrConflict   → a unique index is already held by another record
//	ErrNotFound   → an update or reference named an id that does not exist
//
// Callers match with errors.Is and pull the details out with errors.As.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("Validation Error")
	ErrConflict   = errors.New("conflict")
)

type AppError struct {
	Err     error  // actual error
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Conflict reports a unique index collision: another record of resource
// already holds value in field.
func Conflict(resource, field, value string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s with %s %q already exists", resource, field, value),
		Field:   field,
	}
}

// FieldOf returns the offending field of a validation or conflict error,
// or "" when err carries none.
func FieldOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}
