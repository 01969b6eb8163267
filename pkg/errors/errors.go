package errors

import (
	"errors"
	"fmt"
)

// Common application errors
var (
	// Validation errors
	ErrInvalidRuleParameters = errors.New("invalid rule parameters")
	ErrSnapshotRequired      = errors.New("snapshot is required")
	ErrEmptySnapshot         = errors.New("snapshot contains no data")

	// Data source errors
	ErrDataSourceUnavailable = errors.New("data source unavailable")
	ErrDataNotFound          = errors.New("data not found")
	ErrMalformedData         = errors.New("malformed source data")

	// Storage errors
	ErrStorageConnectionFailed = errors.New("storage connection failed")
	ErrStorageWriteFailed      = errors.New("storage write failed")
	ErrStorageReadFailed       = errors.New("storage read failed")
	ErrReportNotFound          = errors.New("report not found")

	// Transport errors
	ErrConnectionFailed = errors.New("connection failed")
	ErrNetworkTimeout   = errors.New("network timeout")
	ErrNotifierFailed   = errors.New("notifier failed")

	// Configuration errors
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrMissingConfiguration = errors.New("missing configuration")
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation    ErrorType = "validation"
	ErrorTypeDataSource    ErrorType = "data_source"
	ErrorTypeStorage       ErrorType = "storage"
	ErrorTypeTransport     ErrorType = "transport"
	ErrorTypeConfiguration ErrorType = "configuration"
	ErrorTypeInternal      ErrorType = "internal"
)

// AppError represents an application-specific error with additional context
type AppError struct {
	Type      ErrorType              `json:"type"`
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Cause     error                  `json:"-"`
	Context   map[string]interface{} `json:"context,omitempty"`
	Retryable bool                   `json:"retryable"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s - %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:      errType,
		Code:      code,
		Message:   message,
		Retryable: false,
	}
}

// WrapError wraps an existing error with application context
func WrapError(err error, errType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:      errType,
		Code:      code,
		Message:   message,
		Cause:     err,
		Retryable: isRetryable(err),
	}
}

// NewValidationError creates a validation error
func NewValidationError(code, message string) *AppError {
	return NewAppError(ErrorTypeValidation, code, message)
}

// NewDataSourceError creates a data source error
func NewDataSourceError(code, message string) *AppError {
	return NewAppError(ErrorTypeDataSource, code, message)
}

// NewStorageError creates a storage error
func NewStorageError(code, message string) *AppError {
	return NewAppError(ErrorTypeStorage, code, message)
}

// NewTransportError creates a transport error, retryable by default
func NewTransportError(code, message string) *AppError {
	return &AppError{
		Type:      ErrorTypeTransport,
		Code:      code,
		Message:   message,
		Retryable: true,
	}
}

// NewConfigError creates a configuration error
func NewConfigError(code, message string) *AppError {
	return NewAppError(ErrorTypeConfiguration, code, message)
}

// NewInternalError creates an internal error
func NewInternalError(message string) *AppError {
	return NewAppError(ErrorTypeInternal, "INTERNAL_ERROR", message)
}

// IsRetryable reports whether the error is worth retrying
func IsRetryable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Retryable
	}
	return isRetryable(err)
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	switch {
	case errors.Is(err, ErrNetworkTimeout):
		return true
	case errors.Is(err, ErrConnectionFailed):
		return true
	case errors.Is(err, ErrStorageConnectionFailed):
		return true
	default:
		return false
	}
}

// Error codes for different error scenarios
const (
	// Validation error codes
	CodeInvalidInput    = "INVALID_INPUT"
	CodeInvalidRange    = "INVALID_RANGE"
	CodeInvalidFraction = "INVALID_FRACTION"
	CodeSnapshotMissing = "SNAPSHOT_MISSING"

	// Data source error codes
	CodeSourceNotFound = "SOURCE_NOT_FOUND"
	CodeSourceRead     = "SOURCE_READ_FAILED"
	CodeMalformedData  = "MALFORMED_DATA"

	// Storage error codes
	CodeConnectionFailed = "CONNECTION_FAILED"
	CodeWriteFailed      = "WRITE_FAILED"
	CodeReadFailed       = "READ_FAILED"
	CodeReportNotFound   = "REPORT_NOT_FOUND"

	// Transport error codes
	CodeNetworkError  = "NETWORK_ERROR"
	CodeTimeout       = "TIMEOUT"
	CodeNotConfigured = "NOT_CONFIGURED"

	// Configuration error codes
	CodeMissingSetting = "MISSING_SETTING"
	CodeInvalidSetting = "INVALID_SETTING"
)
