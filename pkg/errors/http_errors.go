package errors

import (
	"net/http"
)

// InternalMessage is the message attached to every failure caught at the top of a route
const InternalMessage = "Internal server error"

// FromError converts a standard error to an AppError.
// If the error already is (or wraps) an AppError it is returned as-is,
// otherwise it becomes a generic 500 carrying the error text as details.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}

	if appErr, ok := As(err); ok {
		return appErr
	}

	return &AppError{
		StatusCode: http.StatusInternalServerError,
		Code:       CodeInternal,
		Message:    InternalMessage,
		Details:    err.Error(),
		Cause:      err,
	}
}

// GetStatusCode extracts the HTTP status code from an AppError, returns 500 if not an AppError
func GetStatusCode(err error) int {
	if appErr, ok := As(err); ok {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// GetErrorCode extracts the error code from an AppError, returns "UNKNOWN_ERROR" if not an AppError
func GetErrorCode(err error) string {
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return "UNKNOWN_ERROR"
}
