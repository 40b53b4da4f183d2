package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes used across the service
const (
	CodeInvalidInput       = "INVALID_INPUT"
	CodeConfiguration      = "AI_CONFIG_MISSING"
	CodeUpstream           = "AI_UPSTREAM_ERROR"
	CodeExerciseGeneration = "EXERCISE_GENERATION_FAILED"
	CodeInternal           = "INTERNAL_ERROR"
	CodeRateLimit          = "RATE_LIMIT_EXCEEDED"
	CodeUnauthorized       = "UNAUTHORIZED"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"error"`
	Details    string `json:"details,omitempty"`
	// Upstream carries the provider's raw error body when one was received
	Upstream string `json:"chatvoltError,omitempty"`
	Cause    error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// WithCause records the error that triggered this one
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// NewError creates a new application error
func NewError(statusCode int, code string, message string) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
	}
}

// NewBadRequestError creates a 400 Bad Request error
func NewBadRequestError(code string, message string) *AppError {
	return NewError(http.StatusBadRequest, code, message)
}

// NewUnauthorizedError creates a 401 Unauthorized error
func NewUnauthorizedError(code string, message string) *AppError {
	return NewError(http.StatusUnauthorized, code, message)
}

// NewTooManyRequestsError creates a 429 Too Many Requests error
func NewTooManyRequestsError(code string, message string) *AppError {
	return NewError(http.StatusTooManyRequests, code, message)
}

// NewInternalServerError creates a 500 Internal Server Error
func NewInternalServerError(code string, message string) *AppError {
	return NewError(http.StatusInternalServerError, code, message)
}

// NewClientInputError reports a missing or invalid request field
func NewClientInputError(message string) *AppError {
	return NewBadRequestError(CodeInvalidInput, message)
}

// NewConfigurationError reports missing provider configuration.
// It is fatal for the request and is never retried.
func NewConfigurationError(message string) *AppError {
	return NewInternalServerError(CodeConfiguration, message)
}

// NewUpstreamError reports a non-success answer from the AI provider
func NewUpstreamError(message string, status int, body string) *AppError {
	appErr := NewInternalServerError(CodeUpstream, message)
	appErr.Details = fmt.Sprintf("Status: %d", status)
	appErr.Upstream = body
	return appErr
}

// As reports whether err is, or wraps, an *AppError
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is checks if the target error is of type AppError with the same code
func Is(err error, target *AppError) bool {
	appErr, ok := As(err)
	if !ok {
		return false
	}
	return appErr.Code == target.Code
}
