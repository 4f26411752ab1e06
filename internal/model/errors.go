package model

import (
	"errors"
	"fmt"
)

// Error classes. Every domain error matches exactly one of these with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrCapability = errors.New("operation not supported for this account variant")
	ErrLimit      = errors.New("domain limit exceeded")
	ErrState      = errors.New("illegal state")
)

// domainError is a sentinel that also matches its class.
type domainError struct {
	class error
	msg   string
}

func (e *domainError) Error() string { return e.msg }

func (e *domainError) Is(target error) bool { return target == e.class }

func newError(class error, msg string) error {
	return &domainError{class: class, msg: msg}
}

// Validation errors.
var (
	ErrInvalidAmount      = newError(ErrValidation, "amount must be positive")
	ErrNegativeBalance    = newError(ErrValidation, "balance cannot be negative")
	ErrPeriodOutOfRange   = newError(ErrValidation, "period out of range")
	ErrInvalidTransaction = newError(ErrValidation, "invalid transaction")
	ErrNotFound           = newError(ErrValidation, "not found")
	ErrDuplicateBudget    = newError(ErrValidation, "an active budget already exists for this scope and period")
	ErrInvalidMerge       = newError(ErrValidation, "budget has nothing to merge")
	ErrUnknownAccountKind = newError(ErrValidation, "unknown account kind")
)

// Capability errors.
var ErrUnsupportedOperation = newError(ErrCapability, "unsupported operation")

// Limit errors.
var (
	ErrCreditLimitExceeded = newError(ErrLimit, "credit limit exceeded")
	ErrInsufficientFunds   = newError(ErrLimit, "insufficient funds")
	ErrExceedsOutstanding  = newError(ErrLimit, "amount exceeds outstanding balance")
)

// State errors.
var (
	ErrPlanPaidOff   = newError(ErrState, "installment plan already fully paid")
	ErrLoanRepaid    = newError(ErrState, "loan already fully repaid")
	ErrAlreadyMerged = newError(ErrState, "budget already merged")
)

// ValidationError describes a single rejected field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
