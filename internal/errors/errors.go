package errors

import "fmt"

// Error codes
const (
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeValidation     = "VALIDATION_ERROR"
	ErrCodeInternal       = "INTERNAL_ERROR"
	ErrCodeBadRequest     = "BAD_REQUEST"
	ErrCodeDataLoad       = "DATA_LOAD_ERROR"
	ErrCodeEmptySelection = "EMPTY_SELECTION"
	ErrCodeEmptyPool      = "EMPTY_POOL"
	ErrCodeIndexRange     = "INDEX_OUT_OF_RANGE"
	ErrCodeConflict       = "CONFLICT"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "EMPTY_POOL")
	Message string // Human-readable error message
	Status  int    // HTTP status code
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

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  404,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  400,
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

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  400,
	}
}

// NewDataLoadError creates a new DATA_LOAD_ERROR. Raised when the catalog or
// taxonomy resources failed to load; dependent views stay disabled.
func NewDataLoadError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeDataLoad,
		Message: "catalog data is not available",
		Status:  503,
		Err:     err,
	}
}

// NewEmptySelectionError creates a new EMPTY_SELECTION error. Quiz setup was
// submitted with zero question modes selected.
func NewEmptySelectionError() *AppError {
	return &AppError{
		Code:    ErrCodeEmptySelection,
		Message: "select at least one question mode",
		Status:  400,
	}
}

// NewEmptyPoolError creates a new EMPTY_POOL error. The grade/id filters
// matched no herb records.
func NewEmptyPoolError() *AppError {
	return &AppError{
		Code:    ErrCodeEmptyPool,
		Message: "no herbs match the selected filters",
		Status:  400,
	}
}

// NewIndexError creates a new INDEX_OUT_OF_RANGE error
func NewIndexError(index int) *AppError {
	return &AppError{
		Code:    ErrCodeIndexRange,
		Message: fmt.Sprintf("index out of range: %d", index),
		Status:  400,
	}
}

// NewConflictError creates a new CONFLICT error, used when a remote write is
// rejected because the version token is stale.
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeConflict,
		Message: message,
		Status:  409,
	}
}
