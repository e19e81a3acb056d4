package apperror

import (
	"errors"
	"fmt"
)

// AppError is a typed outcome carrying a stable code, a client-facing message
// and the underlying cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap returns a copy of e carrying err as its cause.
func (e *AppError) Wrap(err error) *AppError {
	return &AppError{Code: e.Code, Message: e.Message, Err: err}
}

// Is reports whether err (or anything it wraps) is an AppError with target's code.
func Is(err error, target *AppError) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == target.Code
	}
	return false
}

func GetCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeServerError
}

func GetMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}

const (
	CodeUnauthorized  = 10001
	CodeTokenExpired  = 10002
	CodeEmailExists   = 10003
	CodeUserNotFound  = 11001
	CodeInvalidParams = 11002

	CodeStorage        = 50001
	CodeDeliveryFailed = 50002
	CodeServerError    = 50099
)

var (
	ErrUnauthorized = New(CodeUnauthorized, "unauthorized")
	ErrTokenExpired = New(CodeTokenExpired, "token has expired")
	ErrEmailExists  = New(CodeEmailExists, "email already in use")

	ErrUserNotFound  = New(CodeUserNotFound, "user not found")
	ErrInvalidParams = New(CodeInvalidParams, "invalid parameters")

	ErrStorage        = New(CodeStorage, "storage failure")
	ErrDeliveryFailed = New(CodeDeliveryFailed, "delivery failed")
	ErrServerError    = New(CodeServerError, "internal server error")
)
