package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrCodeInvalid         ErrorCode = "INVALID"
	ErrCodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	ErrCodeTooManyRequests ErrorCode = "TOO_MANY_REQUESTS"
	ErrCodeInternal        ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error

	// RetryAfter is only set for ErrCodeTooManyRequests.
	RetryAfter time.Duration
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewValidationError reports bad or missing input.
func NewValidationError(message string) *Error {
	return NewError(ErrCodeInvalid, message)
}

// NewTooManyAttempts reports a rate-limit violation with a retry hint.
func NewTooManyAttempts(retryAfter time.Duration) *Error {
	return &Error{
		Code:       ErrCodeTooManyRequests,
		Message:    "Too many login attempts. Please try again later.",
		RetryAfter: retryAfter,
	}
}

// Common domain errors.
var (
	ErrTaskNotFound       = NewError(ErrCodeNotFound, "Task not found")
	ErrCompletionNotFound = NewError(ErrCodeNotFound, "No completion found for this date")
	ErrUnauthorized       = NewError(ErrCodeUnauthorized, "Authentication required")
	ErrIncorrectPassword  = NewError(ErrCodeUnauthorized, "Incorrect password")
	ErrInvalidDate        = NewError(ErrCodeInvalid, "Invalid date format. Use YYYY-MM-DD")
	ErrInvalidPayload     = NewError(ErrCodeInvalid, "Invalid request body")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// RetryAfterOf extracts the retry hint carried by a rate-limit error.
func RetryAfterOf(err error) time.Duration {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.RetryAfter
	}
	return 0
}
