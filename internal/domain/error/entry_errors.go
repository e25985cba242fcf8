// Package error defines domain-specific errors for the ledger engine.
package error

import "errors"

// Ledger entry domain errors.
var (
	// ErrEntryNotFound is returned when a ledger entry is not found.
	ErrEntryNotFound = errors.New("ledger entry not found")

	// ErrInvalidEntryKind is returned when the entry kind is invalid.
	ErrInvalidEntryKind = errors.New("invalid entry kind")

	// ErrInvalidEntryAmount is returned when the entry amount is not strictly positive.
	ErrInvalidEntryAmount = errors.New("entry amount must be positive")

	// ErrInvalidEntryDate is returned when the occurrence date is invalid.
	ErrInvalidEntryDate = errors.New("invalid occurrence date")

	// ErrEntryDescriptionTooLong is returned when the description exceeds the maximum length.
	ErrEntryDescriptionTooLong = errors.New("description too long")

	// ErrEntryNotDeleted is returned when restoring an entry that is not soft-deleted.
	ErrEntryNotDeleted = errors.New("entry is not deleted")

	// ErrMaterializationConflict is returned by the store when an entry for the
	// same (rule, occurrence date) already exists. Callers treat it as success.
	ErrMaterializationConflict = errors.New("entry already materialized for rule and date")
)

// EntryErrorCode defines error codes for ledger entry errors.
// Format: ENT-XXYYYY where XX is category and YYYY is specific error.
type EntryErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidEntryKind        EntryErrorCode = "ENT-010001"
	ErrCodeInvalidEntryAmount      EntryErrorCode = "ENT-010002"
	ErrCodeInvalidEntryDate        EntryErrorCode = "ENT-010003"
	ErrCodeEntryNotFound           EntryErrorCode = "ENT-010004"
	ErrCodeEntryDescriptionTooLong EntryErrorCode = "ENT-010005"
	ErrCodeEntryNotDeleted         EntryErrorCode = "ENT-010006"
)

// EntryError represents a ledger entry error with code and message.
type EntryError struct {
	Code    EntryErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *EntryError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *EntryError) Unwrap() error {
	return e.Err
}

// NewEntryError creates a new EntryError with the given code and message.
func NewEntryError(code EntryErrorCode, message string, err error) *EntryError {
	return &EntryError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
