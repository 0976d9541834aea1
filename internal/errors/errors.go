package errors

import "fmt"

// ErrorCode represents a Pasta error code.
type ErrorCode string

const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400
	ErrNotFound       ErrorCode = "NOT_FOUND"       // 404
	ErrEntryTooLarge  ErrorCode = "ENTRY_TOO_LARGE" // 413
	ErrInternal       ErrorCode = "INTERNAL"        // 500
)

// PastaError represents a structured error with code, status, and details.
type PastaError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *PastaError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *PastaError {
	return &PastaError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when an entry cannot be found.
func NewNotFound(id string) *PastaError {
	return &PastaError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("entry not found: %s", id),
		Details: map[string]any{"id": id},
	}
}

// NewEntryTooLarge creates a 413 error when content exceeds the size limit.
func NewEntryTooLarge(max, actual int) *PastaError {
	return &PastaError{
		Code:    ErrEntryTooLarge,
		Status:  413,
		Message: fmt.Sprintf("content exceeds maximum size: %d chars (max %d)", actual, max),
		Details: map[string]any{"max_chars": max, "actual_chars": actual},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *PastaError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &PastaError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a PastaError with the given code.
func Is(err error, code ErrorCode) bool {
	if pErr, ok := err.(*PastaError); ok {
		return pErr.Code == code
	}
	return false
}
