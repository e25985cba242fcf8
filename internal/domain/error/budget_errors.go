// Package error defines domain-specific errors for the ledger engine.
package error

import "errors"

// Budget domain errors.
var (
	// ErrBudgetNotFound is returned when a budget is not found.
	ErrBudgetNotFound = errors.New("budget not found")

	// ErrInvalidBudgetPeriod is returned when the budget period is invalid.
	ErrInvalidBudgetPeriod = errors.New("invalid budget period")

	// ErrInvalidBudgetTarget is returned when the target amount is not positive.
	ErrInvalidBudgetTarget = errors.New("budget target must be positive")

	// ErrInvalidAlertThreshold is returned when the alert threshold is outside (0, 1].
	ErrInvalidAlertThreshold = errors.New("alert threshold must be within (0, 1]")

	// ErrBudgetInactive is returned when evaluating an inactive budget.
	ErrBudgetInactive = errors.New("budget is inactive")
)

// BudgetErrorCode defines error codes for budget errors.
// Format: BDG-XXYYYY where XX is category and YYYY is specific error.
type BudgetErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeBudgetNotFound        BudgetErrorCode = "BDG-010001"
	ErrCodeInvalidBudgetPeriod   BudgetErrorCode = "BDG-010002"
	ErrCodeInvalidBudgetTarget   BudgetErrorCode = "BDG-010003"
	ErrCodeInvalidAlertThreshold BudgetErrorCode = "BDG-010004"
	ErrCodeBudgetInactive        BudgetErrorCode = "BDG-010005"

	// Internal errors (99XXXX)
	ErrCodeBudgetEvaluationFailed BudgetErrorCode = "BDG-990001"
)

// BudgetError represents a budget error with code and message.
type BudgetError struct {
	Code    BudgetErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *BudgetError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *BudgetError) Unwrap() error {
	return e.Err
}

// NewBudgetError creates a new BudgetError with the given code and message.
func NewBudgetError(code BudgetErrorCode, message string, err error) *BudgetError {
	return &BudgetError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
