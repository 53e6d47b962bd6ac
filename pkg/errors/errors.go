package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// Domain errors
	ErrorTypeValidation    ErrorType = "validation_error"
	ErrorTypeNotFound      ErrorType = "not_found"
	ErrorTypeAlreadyExists ErrorType = "already_exists"

	// Relay errors
	ErrorTypePayloadTooLarge ErrorType = "payload_too_large"
	ErrorTypeTransport       ErrorType = "transport_error"
	ErrorTypeDecode          ErrorType = "decode_error"
	ErrorTypeMessaging       ErrorType = "messaging_error"

	// Infrastructure errors
	ErrorTypeStorage  ErrorType = "storage_error"
	ErrorTypeExternal ErrorType = "external_service_error"
	ErrorTypeTimeout  ErrorType = "timeout_error"

	// System errors
	ErrorTypeInternal      ErrorType = "internal_error"
	ErrorTypeConfiguration ErrorType = "configuration_error"
)

// AppError represents a custom application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface for errors.Is and errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithContext adds context information to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new AppError
func New(errType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, errType ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}

	// If it's already an AppError, carry its context forward
	var appErr *AppError
	if errors.As(err, &appErr) {
		return &AppError{
			Type:    errType,
			Message: message,
			Err:     appErr,
			Context: appErr.Context,
		}
	}

	return &AppError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// Is checks if the error is of a specific type
func Is(err error, errType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// Common error constructors

func NewValidationError(message string) *AppError {
	return New(ErrorTypeValidation, message)
}

func WrapValidationError(err error, message string) *AppError {
	return Wrap(err, ErrorTypeValidation, message)
}

func NewNotFoundError(resource string) *AppError {
	return New(ErrorTypeNotFound, fmt.Sprintf("%s not found", resource))
}

func NewAlreadyExistsError(resource string) *AppError {
	return New(ErrorTypeAlreadyExists, fmt.Sprintf("%s already exists", resource))
}

func NewPayloadTooLargeError(message string) *AppError {
	return New(ErrorTypePayloadTooLarge, message)
}

func NewTransportError(message string) *AppError {
	return New(ErrorTypeTransport, message)
}

func WrapTransportError(err error, message string) *AppError {
	return Wrap(err, ErrorTypeTransport, message)
}

func NewDecodeError(message string) *AppError {
	return New(ErrorTypeDecode, message)
}

func WrapDecodeError(err error, message string) *AppError {
	return Wrap(err, ErrorTypeDecode, message)
}

func NewMessagingError(message string) *AppError {
	return New(ErrorTypeMessaging, message)
}

func WrapMessagingError(err error, message string) *AppError {
	return Wrap(err, ErrorTypeMessaging, message)
}

func NewStorageError(message string) *AppError {
	return New(ErrorTypeStorage, message)
}

func WrapStorageError(err error, message string) *AppError {
	return Wrap(err, ErrorTypeStorage, message)
}

func NewTimeoutError(message string) *AppError {
	return New(ErrorTypeTimeout, message)
}

func NewInternalError(message string) *AppError {
	return New(ErrorTypeInternal, message)
}

func WrapInternalError(err error, message string) *AppError {
	return Wrap(err, ErrorTypeInternal, message)
}

func NewConfigurationError(message string) *AppError {
	return New(ErrorTypeConfiguration, message)
}

func WrapConfigurationError(err error, message string) *AppError {
	return Wrap(err, ErrorTypeConfiguration, message)
}

// IsRetryable reports whether the caller may retry the failed operation.
// Transport, messaging, storage, external and timeout failures are transient;
// the rest indicate a bug or bad input and retrying will not help.
func IsRetryable(err error) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}

	switch appErr.Type {
	case ErrorTypeTransport,
		ErrorTypeStorage,
		ErrorTypeMessaging,
		ErrorTypeExternal,
		ErrorTypeTimeout:
		return true
	default:
		return false
	}
}
