package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/safestay/safestay/internal/ai"
)

// apiError carries the HTTP mapping for a handler failure. Retryable marks
// transient upstream failures the client may retry as-is.
type apiError struct {
	status    int
	code      string
	message   string
	retryable bool
	cause     error
}

func (e *apiError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *apiError) Unwrap() error { return e.cause }

func errBadRequest(format string, args ...any) *apiError {
	return &apiError{
		status:  http.StatusBadRequest,
		code:    "validation_error",
		message: fmt.Sprintf(format, args...),
	}
}

func errNotFound(format string, args ...any) *apiError {
	return &apiError{
		status:  http.StatusNotFound,
		code:    "not_found",
		message: fmt.Sprintf(format, args...),
	}
}

func errNotConfigured(feature string) *apiError {
	return &apiError{
		status:  http.StatusServiceUnavailable,
		code:    "not_configured",
		message: feature + " is not configured",
	}
}

// errUpstream classifies a model or store failure. Model errors and timeouts
// surface as retryable bad-gateway responses so clients can resubmit.
func errUpstream(err error, message string) *apiError {
	var invalid *ai.InvalidResponseError

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &apiError{
			status:    http.StatusBadGateway,
			code:      "ai_timeout",
			message:   message + " timed out",
			retryable: true,
			cause:     err,
		}
	case errors.As(err, &invalid):
		return &apiError{
			status:    http.StatusBadGateway,
			code:      "ai_invalid_response",
			message:   message + " returned an invalid response",
			retryable: true,
			cause:     err,
		}
	default:
		return &apiError{
			status:    http.StatusBadGateway,
			code:      "ai_unavailable",
			message:   message + " failed",
			retryable: true,
			cause:     err,
		}
	}
}

func errStore(err error, message string) *apiError {
	return &apiError{
		status:  http.StatusInternalServerError,
		code:    "store_error",
		message: message,
		cause:   err,
	}
}

// asAPIError maps any handler error to an apiError, defaulting to an
// internal error for causes with no explicit mapping.
func asAPIError(err error) *apiError {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	return &apiError{
		status:  http.StatusInternalServerError,
		code:    "internal_error",
		message: "internal error",
		cause:   err,
	}
}
