package errors

import (
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeSchema   ErrorType = "SCHEMA"
	ErrTypeParsing  ErrorType = "PARSING"
	ErrTypeCurrency ErrorType = "CURRENCY"
	ErrTypeStorage  ErrorType = "STORAGE"
	ErrTypeConfig   ErrorType = "CONFIG"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Helper functions for common error types

// NewSchemaError creates an input-schema error. Schema errors are fatal and
// abort the run before any processing.
func NewSchemaError(message string, cause error) *AppError {
	return NewAppError(ErrTypeSchema, message, cause)
}

// NewParsingError creates a per-record parsing error. Parsing errors are
// recovered locally: the record is excluded and counted.
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewCurrencyError creates an unknown-currency error for a single record.
func NewCurrencyError(code string) *AppError {
	return NewAppError(ErrTypeCurrency, fmt.Sprintf("unknown currency code %q", code), nil).
		WithContext("currency", code)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// IsFatal reports whether the error must abort the whole run rather than be
// recovered per record.
func IsFatal(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		switch appErr.Type {
		case ErrTypeSchema, ErrTypeStorage, ErrTypeConfig:
			return true
		}
		return false
	}
	return true
}
