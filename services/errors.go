package services

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across services. ErrNotFound deliberately covers
// both a missing row and a row owned by someone else, so responses never
// reveal which it was.
var (
	ErrNotFound           = errors.New("record not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError reports a rejected input. The message names the violated
// bound so clients can show it as-is.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// EstimatorError marks a failure of the external nutrition estimator,
// distinct from storage and validation errors so handlers can map it to a
// gateway failure.
type EstimatorError struct {
	Err error
}

func (e *EstimatorError) Error() string { return "nutrition estimator: " + e.Err.Error() }
func (e *EstimatorError) Unwrap() error { return e.Err }
