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

// ErrInsufficientFunds indicates a debit larger than the current balance.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrConflict indicates the account changed between read and conditional write.
var ErrConflict = errors.New("concurrent modification")

// ErrTransient indicates the store could not be reached or returned an unexpected failure.
var ErrTransient = errors.New("transient store failure")

// ErrDegradedWrite marks a committed mutation whose ledger entry or event was lost.
var ErrDegradedWrite = errors.New("degraded write")

// Kind is the caller-facing error category.
type Kind string

const (
	KindInvalidInput          Kind = "InvalidInput"
	KindNotFound              Kind = "NotFound"
	KindInsufficientFunds     Kind = "InsufficientFunds"
	KindConflict              Kind = "Conflict"
	KindAlreadyExists         Kind = "AlreadyExists"
	KindTransientStoreFailure Kind = "TransientStoreFailure"
	KindDegradedWrite         Kind = "DegradedWrite"
	KindInternal              Kind = "Internal"
)

// StatusClass is the coarse classification exposed to callers.
type StatusClass string

const (
	StatusNotFound         StatusClass = "not-found"
	StatusBadInput         StatusClass = "bad-input"
	StatusBusinessRule     StatusClass = "business-rule-violation"
	StatusConflict         StatusClass = "conflict"
	StatusTransientFailure StatusClass = "transient-failure"
	StatusInternal         StatusClass = "internal-error"
)

var kindSentinels = map[Kind]error{
	KindInvalidInput:          ErrValidation,
	KindNotFound:              ErrNotFound,
	KindInsufficientFunds:     ErrInsufficientFunds,
	KindConflict:              ErrConflict,
	KindAlreadyExists:         ErrDuplicate,
	KindTransientStoreFailure: ErrTransient,
	KindDegradedWrite:         ErrDegradedWrite,
}

var kindStatus = map[Kind]StatusClass{
	KindInvalidInput:          StatusBadInput,
	KindNotFound:              StatusNotFound,
	KindInsufficientFunds:     StatusBusinessRule,
	KindConflict:              StatusConflict,
	KindAlreadyExists:         StatusConflict,
	KindTransientStoreFailure: StatusTransientFailure,
}

// AppError carries a Kind alongside the underlying cause.
// errors.Is matches both the Kind sentinel and the wrapped cause.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
	// OutcomeUnknown is set when the write may or may not have been applied.
	OutcomeUnknown bool
}

// NewAppError creates an AppError of the given kind.
func NewAppError(kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if sentinel, ok := kindSentinels[e.Kind]; ok {
		errs = append(errs, sentinel)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Status returns the status class for the error's kind.
func (e *AppError) Status() StatusClass {
	if s, ok := kindStatus[e.Kind]; ok {
		return s
	}
	return StatusInternal
}

// KindOf classifies any error. Plain sentinels are mapped to their kind so
// repository errors wrapped with fmt.Errorf still classify correctly.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	switch {
	case errors.Is(err, ErrValidation):
		return KindInvalidInput
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInsufficientFunds):
		return KindInsufficientFunds
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrDuplicate):
		return KindAlreadyExists
	case errors.Is(err, ErrTransient):
		return KindTransientStoreFailure
	case errors.Is(err, ErrDegradedWrite):
		return KindDegradedWrite
	}
	return KindInternal
}

// StatusOf returns the status class for any error.
func StatusOf(err error) StatusClass {
	if s, ok := kindStatus[KindOf(err)]; ok {
		return s
	}
	return StatusInternal
}

// IsOutcomeUnknown reports whether err signals an ambiguous write.
func IsOutcomeUnknown(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.OutcomeUnknown
	}
	return false
}
