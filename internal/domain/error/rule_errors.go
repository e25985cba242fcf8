// Package error defines domain-specific errors for the ledger engine.
package error

import "errors"

// Recurring rule domain errors.
var (
	// ErrRuleNotFound is returned when a recurring rule is not found.
	ErrRuleNotFound = errors.New("recurring rule not found")

	// ErrInvalidRuleFrequency is returned when the frequency is not one of the
	// supported values.
	ErrInvalidRuleFrequency = errors.New("invalid rule frequency")

	// ErrInvalidRuleInterval is returned at rule creation when the interval is
	// not a positive integer.
	ErrInvalidRuleInterval = errors.New("rule interval must be positive")

	// ErrInvalidRuleDayOfMonth is returned when day-of-month is outside 1-31.
	ErrInvalidRuleDayOfMonth = errors.New("rule day of month must be between 1 and 31")

	// ErrRuleEndBeforeStart is returned when the end date precedes the start date.
	ErrRuleEndBeforeStart = errors.New("rule end date precedes start date")
)

// RuleErrorCode defines error codes for recurring rule errors.
// Format: RUL-XXYYYY where XX is category and YYYY is specific error.
type RuleErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeRuleNotFound          RuleErrorCode = "RUL-010001"
	ErrCodeInvalidRuleFrequency  RuleErrorCode = "RUL-010002"
	ErrCodeInvalidRuleInterval   RuleErrorCode = "RUL-010003"
	ErrCodeInvalidRuleDayOfMonth RuleErrorCode = "RUL-010004"
	ErrCodeRuleEndBeforeStart    RuleErrorCode = "RUL-010005"
)

// RuleError represents a recurring rule error with code and message.
type RuleError struct {
	Code    RuleErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *RuleError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *RuleError) Unwrap() error {
	return e.Err
}

// NewRuleError creates a new RuleError with the given code and message.
func NewRuleError(code RuleErrorCode, message string, err error) *RuleError {
	return &RuleError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
