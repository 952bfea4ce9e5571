package errors

import (
	"net/http"

	"github.com/pkg/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.details != "" {
		return e.message + ": " + e.details
	}

	return e.message
}

// Is matches errors carrying the same business code, so WithDetails copies still match the sentinel.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}

	return t.errorCode == e.errorCode
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Booking errors
	ErrCapacityExceeded = NewBaseError(
		http.StatusConflict,
		"CAPACITY_EXCEEDED",
		"This time slot is fully booked. Please choose another.",
		"",
	)

	// State machine errors
	ErrInvalidTransition = NewBaseError(
		http.StatusConflict,
		"INVALID_TRANSITION",
		"The requested status change is not allowed",
		"",
	)

	// Not found errors
	ErrUserNotFound = NewBaseError(
		http.StatusNotFound,
		"USER_NOT_FOUND",
		"User not found",
		"",
	)

	ErrRequestNotFound = NewBaseError(
		http.StatusNotFound,
		"REQUEST_NOT_FOUND",
		"Blood request not found",
		"",
	)

	ErrAppointmentNotFound = NewBaseError(
		http.StatusNotFound,
		"APPOINTMENT_NOT_FOUND",
		"Appointment not found",
		"",
	)

	ErrInventoryNotFound = NewBaseError(
		http.StatusNotFound,
		"INVENTORY_NOT_FOUND",
		"Hospital inventory not found",
		"",
	)

	ErrWatchlistEntryNotFound = NewBaseError(
		http.StatusNotFound,
		"WATCHLIST_ENTRY_NOT_FOUND",
		"Watchlist entry not found",
		"",
	)

	ErrSessionNotFound = NewBaseError(
		http.StatusNotFound,
		"SESSION_NOT_FOUND",
		"Chat session not found",
		"",
	)

	// Validation errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Input validation failed",
		"",
	)

	ErrInvalidBloodType = NewBaseError(
		http.StatusBadRequest,
		"INVALID_BLOOD_TYPE",
		"Unknown blood type",
		"",
	)

	ErrUserAlreadyExists = NewBaseError(
		http.StatusConflict,
		"USER_ALREADY_EXISTS",
		"A profile with this UID already exists",
		"",
	)

	ErrNotADonor = NewBaseError(
		http.StatusConflict,
		"NOT_A_DONOR",
		"User is not registered as a donor",
		"",
	)

	// General errors
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Internal server error",
		"",
	)

	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		"NOT_FOUND",
		"Resource not found",
		"",
	)
)

// StoreError represents a read or write failure against the document store, implementing the AppError interface
type StoreError struct {
	err     error
	details string
}

// NewStoreError creates a store-related error
func NewStoreError(err error, details string) AppError {
	return &StoreError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *StoreError) Error() string {
	return errors.Wrap(e.err, "store operation failed: "+e.details).Error()
}

// Unwrap exposes the driver error
func (e *StoreError) Unwrap() error {
	return e.err
}

// HTTPCode returns the HTTP status code
func (e *StoreError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *StoreError) ErrorCode() string {
	return "STORE_OPERATION_FAILED"
}

// Message returns the user-friendly error message
func (e *StoreError) Message() string {
	return "Data store operation failed, please try again"
}

// Details returns detailed error information
func (e *StoreError) Details() string {
	return e.details
}
