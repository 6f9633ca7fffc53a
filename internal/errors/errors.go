package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind represents the type of error
type Kind int

const (
	ErrInternal Kind = iota
	ErrNotFound
	ErrTimeout
	ErrCancelled
	ErrParseFailure
	ErrPermission
	ErrInsufficientPool
	ErrPersistence
	ErrConflict
	ErrInvalidInput
)

// Error is an application-level error with a kind for classification
type Error struct {
	Kind    Kind
	Message string
	Err     error // underlying error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err (or anything it wraps) is an application
// error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// Constructor functions for common error types

func NotFound(msg string) *Error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func Timeout(msg string) *Error {
	return &Error{Kind: ErrTimeout, Message: msg}
}

func Cancelled(msg string) *Error {
	return &Error{Kind: ErrCancelled, Message: msg}
}

func ParseFailure(msg string) *Error {
	return &Error{Kind: ErrParseFailure, Message: msg}
}

func Permission(msg string) *Error {
	return &Error{Kind: ErrPermission, Message: msg}
}

func InsufficientPool(msg string) *Error {
	return &Error{Kind: ErrInsufficientPool, Message: msg}
}

func Persistence(msg string, err error) *Error {
	return &Error{Kind: ErrPersistence, Message: msg, Err: err}
}

func Conflict(msg string) *Error {
	return &Error{Kind: ErrConflict, Message: msg}
}

func Conflictf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

func InvalidInput(msg string) *Error {
	return &Error{Kind: ErrInvalidInput, Message: msg}
}

func InvalidInputf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func Internal(err error) *Error {
	return &Error{Kind: ErrInternal, Message: "internal error", Err: err}
}

// Wrap wraps an error with additional context
func Wrap(err error, kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}
