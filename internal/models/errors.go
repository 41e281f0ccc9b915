package models

import (
	"errors"
	"fmt"
	"strings"
)

// Common error types
var (
	ErrNotFound           = errors.New("resource not found")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidPostalCode  = errors.New("invalid postal code")
	ErrPostalCodeNotFound = errors.New("postal code not found")
)

// Error codes exposed to API clients
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeInvalidPostalCode = "INVALID_POSTAL_CODE"
	CodeNotFound          = "NOT_FOUND"
)

// FieldError describes a single rejected input field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (f FieldError) Error() string {
	return fmt.Sprintf("%s: %s", f.Field, f.Message)
}

// AppError represents an application-level error with context
type AppError struct {
	Code    string
	Message string
	Fields  []FieldError
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

// ErrValidationFields creates a validation error reporting every rejected field
func ErrValidationFields(fields ...FieldError) error {
	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, f.Error())
	}

	return &AppError{
		Code:    CodeValidation,
		Message: strings.Join(msgs, "; "),
		Fields:  fields,
		Err:     ErrValidation,
	}
}

// ErrInvalidPostalCodeWithCause creates an invalid postal code error.
// The cause is kept for logs and never shown to clients.
func ErrInvalidPostalCodeWithCause(cause error) error {
	err := ErrInvalidPostalCode
	if cause != nil {
		err = fmt.Errorf("%w: %w", ErrInvalidPostalCode, cause)
	}

	return &AppError{
		Code:    CodeInvalidPostalCode,
		Message: "CEP inválido",
		Err:     err,
	}
}

// ErrNotFoundWithMsg creates a not found error with custom message
func ErrNotFoundWithMsg(message string) error {
	return &AppError{
		Code:    CodeNotFound,
		Message: message,
		Err:     ErrNotFound,
	}
}

// IsNotFound reports whether err is, or wraps, a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
