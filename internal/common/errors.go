package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Fatal run errors. Any of these aborts the run; partial in-memory state is
// discarded and no dataset is emitted.
var (
	// ErrSegmentation: no employee header was found anywhere in the document.
	ErrSegmentation = errors.New("segmentation failed")
	// ErrMissingRequiredColumn: the roster has no recognizable CPF or gross column.
	ErrMissingRequiredColumn = errors.New("missing required column")
	// ErrDuplicateReferenceKey: two roster rows share a normalized CPF.
	ErrDuplicateReferenceKey = errors.New("duplicate reference key")
	// ErrDuplicatePayrollTaxID: the same CPF was segmented into two payroll blocks.
	ErrDuplicatePayrollTaxID = errors.New("duplicate payroll tax id")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsFatal reports whether err is one of the run-aborting errors.
func IsFatal(err error) bool {
	return errors.Is(err, ErrSegmentation) ||
		errors.Is(err, ErrMissingRequiredColumn) ||
		errors.Is(err, ErrDuplicateReferenceKey) ||
		errors.Is(err, ErrDuplicatePayrollTaxID)
}
