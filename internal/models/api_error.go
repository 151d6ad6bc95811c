package models

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode is a string type for consistent error codes.
type ErrorCode string

const (
	// Generic
	ErrorCodeInternalServerError ErrorCode = "internal_server_error"
	ErrorCodeBadRequest          ErrorCode = "bad_request"
	ErrorCodeNotFound            ErrorCode = "not_found"
	ErrorCodeUnauthorized        ErrorCode = "unauthorized"
	ErrorCodeConflict            ErrorCode = "conflict"
	ErrorCodeBadGateway          ErrorCode = "bad_gateway"

	// Authentication
	ErrorCodeInvalidToken ErrorCode = "invalid_token"
	ErrorCodeNotSignedIn  ErrorCode = "not_signed_in"

	// Validation
	ErrorCodeValidationFailed ErrorCode = "validation_failed"
	ErrorCodeMissingParameter ErrorCode = "missing_parameter"
	ErrorCodeInvalidFormat    ErrorCode = "invalid_format"

	// Upstream: bad_gateway when the backend cannot be reached,
	// upstream_failed when it answers with an error.
	ErrorCodeUpstreamFailed ErrorCode = "upstream_failed"
)

type APIError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Details    any       `json:"details,omitempty"`
	StatusCode int       `json:"-"`
}

// Error makes APIError implement the error interface.
func (e APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// NewAPIError is a constructor for APIError.
func NewAPIError(code ErrorCode, message string, details any, statusCode int) APIError {
	return APIError{
		Code:       code,
		Message:    message,
		Details:    details,
		StatusCode: statusCode,
	}
}

// AsAPIError unwraps err into an APIError. Anything that is not already one
// is reported as an internal server error.
func AsAPIError(err error) APIError {
	var apiErr APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == 0 {
			apiErr.StatusCode = http.StatusInternalServerError
		}
		return apiErr
	}
	return NewAPIError(ErrorCodeInternalServerError, err.Error(), nil, http.StatusInternalServerError)
}
