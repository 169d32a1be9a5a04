package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrCodeInvalid         ErrorCode = "INVALID"
	ErrCodeConflict        ErrorCode = "CONFLICT"
	ErrCodeForbidden       ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	ErrCodeTooManyRequests ErrorCode = "TOO_MANY_REQUESTS"
	ErrCodeInternal        ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
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

// Invalidf is a shorthand for request validation failures.
func Invalidf(format string, args ...interface{}) *Error {
	return NewError(ErrCodeInvalid, fmt.Sprintf(format, args...))
}

// Common domain errors.
var (
	ErrUserNotFound       = NewError(ErrCodeNotFound, "user not found")
	ErrProjectNotFound    = NewError(ErrCodeNotFound, "project not found")
	ErrTaskNotFound       = NewError(ErrCodeNotFound, "task not found")
	ErrCommentNotFound    = NewError(ErrCodeNotFound, "comment not found")
	ErrUsernameTaken      = NewError(ErrCodeConflict, "username already registered")
	ErrEmailTaken         = NewError(ErrCodeConflict, "email already registered")
	ErrAlreadyMember      = NewError(ErrCodeConflict, "user is already a project member")
	ErrInvalidCredentials = NewError(ErrCodeUnauthorized, "incorrect username or password")
	ErrUnauthorized       = NewError(ErrCodeUnauthorized, "unauthorized")
	ErrInvalidToken       = NewError(ErrCodeUnauthorized, "invalid or expired token")
	ErrForbidden          = NewError(ErrCodeForbidden, "forbidden")
	ErrInvalidPayload     = NewError(ErrCodeInvalid, "invalid payload")
	ErrInvalidStatus      = NewError(ErrCodeInvalid, "status must be one of: To Do, In Progress, Done")
	ErrInvalidPriority    = NewError(ErrCodeInvalid, "priority must be one of: low, medium, high, urgent")
	ErrTooManyAttempts    = NewError(ErrCodeTooManyRequests, "too many attempts, please try again later")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
