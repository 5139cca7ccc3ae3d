package domain

import (
	"fmt"
)

// Error codes carried by ValidationError.
const (
	ErrInvalidInput = "INVALID_INPUT"
	ErrValidation   = "VALIDATION_ERROR"
)

// ValidationError represents input validation errors
type ValidationError struct {
	Code    string      `json:"code"`
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: validation error for field '%s': %s", e.Code, e.Field, e.Message)
}

// NewValidationError creates a new ValidationError
func NewValidationError(code, field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Code:    code,
		Field:   field,
		Message: message,
		Value:   value,
	}
}
