// Package domain defines the error taxonomy shared by the service layer and
// the HTTP handlers. Authorization and validation failures are raised before
// any write; storage failures abort the whole operation.
package domain

import (
	"errors"
	"fmt"
)

type ValidationError struct{ msg string }

func (e *ValidationError) Error() string { return e.msg }

type NotFoundError struct{ msg string }

func (e *NotFoundError) Error() string { return e.msg }

type ForbiddenError struct{ msg string }

func (e *ForbiddenError) Error() string { return e.msg }

type ConflictError struct{ msg string }

func (e *ConflictError) Error() string { return e.msg }

// StorageError wraps an unexpected persistence failure. The cause is kept for
// logging but never shown to clients.
type StorageError struct {
	msg   string
	cause error
}

func (e *StorageError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

func (e *StorageError) Unwrap() error { return e.cause }

func Validation(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &NotFoundError{msg: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) error {
	return &ForbiddenError{msg: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) error {
	return &ConflictError{msg: fmt.Sprintf(format, args...)}
}

func Storage(msg string, cause error) error {
	return &StorageError{msg: msg, cause: cause}
}

func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func IsForbidden(err error) bool {
	var e *ForbiddenError
	return errors.As(err, &e)
}

func IsConflict(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}

func IsStorage(err error) bool {
	var e *StorageError
	return errors.As(err, &e)
}
