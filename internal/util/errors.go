package util

import (
	"errors"
	"fmt"
)

// Error kinds. Compare with errors.Is; every *AppError matches its kind.
var (
	ErrInput         = errors.New("invalid input")
	ErrNotFound      = errors.New("not found")
	ErrForbidden     = errors.New("forbidden")
	ErrGateViolation = errors.New("progression gate not met")
	ErrConfiguration = errors.New("invalid configuration")
)

// AppError carries the kind, the offending field and a caller-safe message.
type AppError struct {
	Kind    error
	Field   string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *AppError) Is(target error) bool {
	return target == e.Kind
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newAppError(kind error, field, format string, args ...interface{}) *AppError {
	return &AppError{Kind: kind, Field: field, Message: fmt.Sprintf(format, args...)}
}

func NewInputError(field, format string, args ...interface{}) *AppError {
	return newAppError(ErrInput, field, format, args...)
}

func NewNotFoundError(field, format string, args ...interface{}) *AppError {
	return newAppError(ErrNotFound, field, format, args...)
}

func NewForbiddenError(format string, args ...interface{}) *AppError {
	return newAppError(ErrForbidden, "", format, args...)
}

// NewGateViolationError names the gate that refused the transition.
func NewGateViolationError(gate, format string, args ...interface{}) *AppError {
	return newAppError(ErrGateViolation, gate, format, args...)
}

func NewConfigurationError(field, format string, args ...interface{}) *AppError {
	return newAppError(ErrConfiguration, field, format, args...)
}

// PublicMessage returns the message that may be shown to API callers.
func PublicMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		msg := appErr.Message
		if msg == "" {
			msg = appErr.Kind.Error()
		}
		if appErr.Field != "" {
			return appErr.Field + ": " + msg
		}
		return msg
	}
	return err.Error()
}
