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

// ErrInternal indicates a systemic failure (storage, driver) passed through to the caller.
var ErrInternal = errors.New("internal error")

// ErrInvariantViolation is the category shared by every ledger or holding invariant failure.
// Such failures are always rejected before any state change.
var ErrInvariantViolation = errors.New("ledger invariant violation")

// ErrMissingReference is the category for absent prices, rates, accounts or other lookups.
var ErrMissingReference = errors.New("missing reference data")

// ErrPeriodNotClosed indicates facts were requested before the period could be complete.
var ErrPeriodNotClosed = errors.New("reporting period not closed")

// AppError carries a status-like code for systemic failures raised by adapters.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError wraps err with a code and message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error { return e.Err }

// Is reports ErrInternal for every AppError so callers can classify adapter failures.
func (e *AppError) Is(target error) bool { return target == ErrInternal }
