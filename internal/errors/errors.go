// Package errors defines the application error taxonomy.
package errors

import (
	"errors"
	"fmt"
)

// Error codes
const (
	CodeNotFound     = "NOT_FOUND"
	CodeInvalidInput = "INVALID_INPUT"
	CodePersistence  = "PERSISTENCE_FAILURE"
)

// AppError is an application error with a machine-readable code. Every
// recoverable failure in the engine is one of these; none is fatal.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFound reports an operation on an unknown session or result id.
func NewNotFound(resource string, id any) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
	}
}

// NewInvalidInput reports malformed user input; prior state is untouched.
func NewInvalidInput(reason string) *AppError {
	return &AppError{
		Code:    CodeInvalidInput,
		Message: reason,
	}
}

// NewPersistence reports a storage failure that must not block in-memory state.
func NewPersistence(op string, err error) *AppError {
	return &AppError{
		Code:    CodePersistence,
		Message: fmt.Sprintf("storage %s failed", op),
		Err:     err,
	}
}

func hasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsNotFound reports whether err carries the NOT_FOUND code.
func IsNotFound(err error) bool { return hasCode(err, CodeNotFound) }

// IsInvalidInput reports whether err carries the INVALID_INPUT code.
func IsInvalidInput(err error) bool { return hasCode(err, CodeInvalidInput) }

// IsPersistence reports whether err carries the PERSISTENCE_FAILURE code.
func IsPersistence(err error) bool { return hasCode(err, CodePersistence) }
