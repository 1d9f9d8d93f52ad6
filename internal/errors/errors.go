package errors

import (
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// Common error codes used across the engine and its adapters.
const (
	CodeConfig     = "CONFIG_ERROR"
	CodeIngestion  = "INGESTION_ERROR"
	CodeHierarchy  = "HIERARCHY_ERROR"
	CodeStorage    = "STORAGE_ERROR"
	CodeBadRequest = "BAD_REQUEST"
)

// NewConfig creates a configuration error
func NewConfig(message string) *AppError {
	return New(CodeConfig, message)
}

// NewBadRequest creates a request validation error
func NewBadRequest(message string) *AppError {
	return New(CodeBadRequest, message)
}
