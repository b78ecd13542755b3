package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain layer operations.
var (
	// ErrNotFound indicates that a requested entity was not found
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrValidationFailed indicates that validation checks have failed
	ErrValidationFailed = errors.New("validation failed")

	// ErrVersionConflict indicates an optimistic-concurrency collision: the
	// caller's Version did not match the stored document's current version.
	ErrVersionConflict = errors.New("version conflict")

	// ErrLeaseNotOwned indicates a lease renew/release was attempted by a
	// worker that does not currently hold the lease.
	ErrLeaseNotOwned = errors.New("lease not owned by caller")
)

// ValidationError represents a validation error with detailed field information.
// It implements the error interface and provides context about which field failed validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}
