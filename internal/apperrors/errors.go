package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the actor may not act on the requested tenant.
var ErrForbidden = errors.New("forbidden")

// ErrInternal indicates an unexpected storage or infrastructure failure.
var ErrInternal = errors.New("internal error")

// Ledger errors. Callers match them with errors.Is; wrapping adds context only.
var (
	// ErrUnbalancedEntry is returned when the debit total of an entry differs from its credit total.
	ErrUnbalancedEntry = errors.New("journal entry is not balanced")
	// ErrUnresolvedAccount is returned when a posting rule points at a code missing from the chart.
	ErrUnresolvedAccount = errors.New("posting account could not be resolved")
	// ErrAccountNotFound is returned by chart lookups for unknown or inactive codes.
	ErrAccountNotFound = errors.New("account not found")
	// ErrNothingToPost is returned for events whose amounts are all zero.
	ErrNothingToPost = errors.New("nothing to post")
	// ErrIneligibleSource is returned when the source document is not in a postable state.
	ErrIneligibleSource = errors.New("source document is not eligible for posting")
	// ErrInvalidDateRange is returned when a report period ends before it starts.
	ErrInvalidDateRange = errors.New("invalid date range")
	// ErrSyncRowConflict is returned when an existing unified-ledger row disagrees with its sale.
	ErrSyncRowConflict = errors.New("unified ledger row conflicts with source sale")
)

// AppError carries an HTTP-facing code alongside a wrapped sentinel.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// NewAppError builds an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError wraps ErrNotFound with the name of the missing resource.
func NewNotFoundError(resource string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, resource)
}

// NewValidationError wraps ErrValidation with a message.
func NewValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
