// Package error defines domain-specific errors for the ledger engine.
package error

import "errors"

// Statistics domain errors.
var (
	// ErrInvalidPeriod is returned when a period descriptor cannot be parsed.
	ErrInvalidPeriod = errors.New("invalid period descriptor")

	// ErrAggregationFailed is returned when a summary could not be computed,
	// typically because the ledger store was unavailable. No partial snapshot
	// is ever cached alongside this error.
	ErrAggregationFailed = errors.New("statistics aggregation failed")
)

// StatisticsErrorCode defines error codes for statistics errors.
// Format: STA-XXYYYY where XX is category and YYYY is specific error.
type StatisticsErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidPeriod StatisticsErrorCode = "STA-010001"

	// Internal errors (99XXXX)
	ErrCodeAggregationFailed StatisticsErrorCode = "STA-990001"
)

// StatisticsError represents a statistics error with code and message.
type StatisticsError struct {
	Code    StatisticsErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *StatisticsError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *StatisticsError) Unwrap() error {
	return e.Err
}

// NewStatisticsError creates a new StatisticsError with the given code and message.
func NewStatisticsError(code StatisticsErrorCode, message string, err error) *StatisticsError {
	return &StatisticsError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
