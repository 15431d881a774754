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

// ErrConflict indicates the request conflicts with the current state of a resource.
var ErrConflict = errors.New("resource state conflict")

// ErrInternal indicates an unexpected failure in a dependency.
var ErrInternal = errors.New("internal error")

// ErrInsufficientFunds indicates an account cannot cover a debit.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrLimitExceeded indicates a configured spend or transfer ceiling would be crossed.
var ErrLimitExceeded = errors.New("limit exceeded")

// ErrCurrencyMismatch indicates amounts in different currencies were combined.
var ErrCurrencyMismatch = errors.New("currency mismatch")

// ErrUnbalancedJournalEntry indicates postings that do not sum to zero per currency.
var ErrUnbalancedJournalEntry = errors.New("journal entry postings do not balance")

// ErrAlreadyReversed indicates a journal entry already has a reversal.
var ErrAlreadyReversed = errors.New("journal entry already reversed")

// ErrConcurrencyConflict indicates a transaction lost a race (serialization
// failure, deadlock or lock timeout) and may be retried.
var ErrConcurrencyConflict = errors.New("concurrency conflict")

// ErrInvalidHoldTransition indicates a hold is not in a state that allows the requested change.
var ErrInvalidHoldTransition = errors.New("invalid hold status transition")

// AppError carries an HTTP-ish status code alongside the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// IsIntegrityError reports whether err signals broken ledger data rather than
// an expected business outcome.
func IsIntegrityError(err error) bool {
	return errors.Is(err, ErrUnbalancedJournalEntry) ||
		errors.Is(err, ErrCurrencyMismatch) ||
		errors.Is(err, ErrAlreadyReversed)
}
