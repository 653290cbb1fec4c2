// Package apperror defines the application's error taxonomy.
//
// Every error produced below the handler layer wraps one of the sentinel
// errors here, so callers classify with errors.Is and extract the
// human-readable message with errors.As. Errors propagate unchanged to the
// caller; no layer recovers locally or substitutes defaults.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")

	// ErrMigration marks a schema migration that hit a record it could not
	// canonicalize. It is fatal to opening the database: nothing of the
	// migration is persisted and the store stays at its prior version.
	ErrMigration = errors.New("migration failed")

	// ErrStorageUnavailable means the persistence backend cannot be used in
	// the current environment at all. Surfaced by the first open, never
	// lazily.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// AppError carries a sentinel plus context for user-facing messaging.
type AppError struct {
	Err     error  // sentinel this error wraps
	Message string // human-readable error message
	Field   string // optional: field causing the error
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

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// MigrationFailed wraps a migration step failure with the step's target
// version and the record that could not be canonicalized.
func MigrationFailed(version int, cause error) *AppError {
	return &AppError{
		Err:     ErrMigration,
		Message: fmt.Sprintf("migration to version %d failed: %v", version, cause),
	}
}

func StorageUnavailable(cause error) *AppError {
	return &AppError{
		Err:     ErrStorageUnavailable,
		Message: fmt.Sprintf("persistence backend unavailable: %v", cause),
	}
}
