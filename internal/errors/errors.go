// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrMalformedBars    = errors.New("malformed price bars")
	ErrInsufficientData = errors.New("insufficient data")
	ErrDataNotFound     = errors.New("data not found")
	ErrSymbolNotFound   = errors.New("symbol not found")
	ErrConfigInvalid    = errors.New("invalid configuration")
	ErrDatabaseError    = errors.New("database error")
	ErrUnknownPattern   = errors.New("unknown pattern type")
	ErrUnknownIndicator = errors.New("unknown indicator")
)

// DetectorError represents a failure inside a single pattern detector.
// The orchestrator isolates these so one failing detector never aborts
// detection of the remaining pattern types.
type DetectorError struct {
	Pattern string
	Bars    int
	Err     error
}

func (e *DetectorError) Error() string {
	return fmt.Sprintf("detector error [%s] over %d bars: %v", e.Pattern, e.Bars, e.Err)
}

func (e *DetectorError) Unwrap() error {
	return e.Err
}

// NewDetectorError creates a new DetectorError.
func NewDetectorError(pattern string, bars int, err error) *DetectorError {
	return &DetectorError{
		Pattern: pattern,
		Bars:    bars,
		Err:     err,
	}
}

// DataError represents a data-related error.
type DataError struct {
	DataType string
	Symbol   string
	Message  string
	Err      error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data error [%s] %s: %s: %v", e.DataType, e.Symbol, e.Message, e.Err)
	}
	return fmt.Sprintf("data error [%s] %s: %s", e.DataType, e.Symbol, e.Message)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// NewDataError creates a new DataError.
func NewDataError(dataType, symbol, message string, err error) *DataError {
	return &DataError{
		DataType: dataType,
		Symbol:   symbol,
		Message:  message,
		Err:      err,
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
