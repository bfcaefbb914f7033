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

// ErrForbidden indicates the acting user may not perform the operation.
// Role checks live in the auth layer in front of this service; this sentinel
// exists for handlers that translate its findings.
var ErrForbidden = errors.New("forbidden")

// ErrConflict indicates that an operation is not legal from the resource's
// current state (e.g. approving an already-rejected request).
var ErrConflict = errors.New("state conflict")

// ErrAllocationConflict indicates that the sequence allocator detected a
// collision and exhausted its retries. It must never be swallowed into a
// duplicate number.
var ErrAllocationConflict = errors.New("sequence allocation conflict")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-ish status code and message alongside the wrapped
// cause. The pgsql layer uses it to annotate driver failures.
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

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches errors.Is(_, ErrNotFound).
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
