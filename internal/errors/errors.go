package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes
const (
	ErrCodeItemNotFound = "ITEM_NOT_FOUND"
	ErrCodeAPI          = "API_ERROR"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeTransport    = "TRANSPORT_ERROR"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// Sentinels for errors.Is matching. Only the Code is compared.
var (
	ErrItemNotFound = &AppError{Code: ErrCodeItemNotFound}
	ErrAPI          = &AppError{Code: ErrCodeAPI}
	ErrValidation   = &AppError{Code: ErrCodeValidation}
	ErrBadRequest   = &AppError{Code: ErrCodeBadRequest}
	ErrTransport    = &AppError{Code: ErrCodeTransport}
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "ITEM_NOT_FOUND", "API_ERROR")
	Message string // Human-readable error message
	Status  int    // HTTP status code used by the API layer
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AppError with the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewItemNotFoundError creates an ITEM_NOT_FOUND error. The message is the one
// reported by the service and is kept verbatim.
func NewItemNotFoundError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeItemNotFound,
		Message: message,
		Status:  404,
	}
}

// NewAPIError creates an API_ERROR, used when a response breaks the documented
// XML contract.
func NewAPIError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeAPI,
		Message: message,
		Status:  502,
	}
}

// NewAPIErrorf is NewAPIError with formatting.
func NewAPIErrorf(format string, args ...any) *AppError {
	return NewAPIError(fmt.Sprintf(format, args...))
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  422,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  400,
	}
}

// NewTransportError creates a TRANSPORT_ERROR wrapping err.
func NewTransportError(message string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeTransport,
		Message: message,
		Status:  502,
		Err:     err,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  500,
		Err:     err,
	}
}

// CodeOf returns the code of the first AppError in err's chain, or
// ErrCodeInternal when there is none.
func CodeOf(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// AsAppError returns err as an *AppError, wrapping it as an internal error when
// it is not one already.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError(err)
}
