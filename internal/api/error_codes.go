package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
)

// ErrorCode represents machine-readable error codes.
type ErrorCode string

const (
	// ErrBadRequest indicates a malformed request (HTTP 400).
	ErrBadRequest ErrorCode = "bad_request"
	// ErrUnauthorized indicates the token is missing or rejected (HTTP 401).
	ErrUnauthorized ErrorCode = "unauthorized"
	// ErrForbidden indicates the token lacks permission (HTTP 403).
	ErrForbidden ErrorCode = "forbidden"
	// ErrNotFound indicates the requested resource does not exist (HTTP 404).
	ErrNotFound ErrorCode = "not_found"
	// ErrConflict indicates a conflict with current state (HTTP 409).
	ErrConflict ErrorCode = "conflict"
	// ErrValidation indicates input validation failed (HTTP 422).
	ErrValidation ErrorCode = "validation_failed"
	// ErrRateLimited indicates too many requests (HTTP 429).
	ErrRateLimited ErrorCode = "rate_limited"
	// ErrServerError indicates an internal server error (HTTP 5xx).
	ErrServerError ErrorCode = "server_error"
	// ErrTimeout indicates the request timed out.
	ErrTimeout ErrorCode = "timeout"
	// ErrCanceled indicates the caller canceled the request.
	ErrCanceled ErrorCode = "canceled"
	// ErrNetwork indicates the BFF could not be reached.
	ErrNetwork ErrorCode = "network"
	// ErrInvalidInput indicates a FieldMap the encoder rejected.
	ErrInvalidInput ErrorCode = "invalid_input"
	// ErrUnknown indicates an unknown or unclassified error.
	ErrUnknown ErrorCode = "unknown"
)

// IsRetryable returns true if errors with this code may succeed on retry.
func (c ErrorCode) IsRetryable() bool {
	switch c {
	case ErrRateLimited, ErrServerError, ErrTimeout, ErrNetwork:
		return true
	default:
		return false
	}
}

// Suggestion returns a human-readable suggestion for resolving this error.
func (c ErrorCode) Suggestion() string {
	switch c {
	case ErrUnauthorized:
		return "Run 'cig-bff auth login' or pass --token"
	case ErrForbidden:
		return "Check that the token belongs to the breeder being changed"
	case ErrNotFound:
		return "Verify the breeder, poultry, advertising or deal ID exists"
	case ErrRateLimited:
		return "Wait a moment and retry"
	case ErrValidation, ErrBadRequest:
		return "Check the input values"
	case ErrInvalidInput:
		return "Check the request fields and attachments"
	case ErrConflict:
		return "The resource state may have changed; refresh and retry"
	case ErrServerError:
		return "The server encountered an error; try again later"
	case ErrTimeout:
		return "The request timed out; check network connectivity and retry"
	case ErrNetwork:
		return "Check the BFF URL and your network connection"
	default:
		return ""
	}
}

// ErrorCodeFromStatus maps an HTTP status code to an ErrorCode.
func ErrorCodeFromStatus(statusCode int) ErrorCode {
	switch statusCode {
	case 400:
		return ErrBadRequest
	case 401:
		return ErrUnauthorized
	case 403:
		return ErrForbidden
	case 404:
		return ErrNotFound
	case 409:
		return ErrConflict
	case 422:
		return ErrValidation
	case 429:
		return ErrRateLimited
	default:
		if statusCode >= 500 && statusCode < 600 {
			return ErrServerError
		}
		return ErrUnknown
	}
}

// CodeOf classifies err.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var fieldErr *FieldError
	if errors.As(err, &fieldErr) {
		return ErrInvalidInput
	}
	var remote *RemoteError
	if errors.As(err, &remote) {
		return ErrorCodeFromStatus(remote.StatusCode)
	}
	switch {
	case errors.Is(err, context.Canceled):
		return ErrCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ErrTimeout
		}
		return ErrNetwork
	}
	var transport *TransportError
	if errors.As(err, &transport) && transport.StatusCode != 0 {
		return ErrorCodeFromStatus(transport.StatusCode)
	}
	return ErrUnknown
}

// StructuredError provides machine-readable error information for JSON output.
type StructuredError struct {
	Code       ErrorCode       `json:"code"`
	Message    string          `json:"message"`
	Retryable  bool            `json:"retryable"`
	Suggestion string          `json:"suggestion,omitempty"`
	Remote     json.RawMessage `json:"remote,omitempty"`
	Context    map[string]any  `json:"context,omitempty"`
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// StructuredErrorFromError converts any error to a StructuredError.
func StructuredErrorFromError(err error) *StructuredError {
	if err == nil {
		return nil
	}

	var se *StructuredError
	if errors.As(err, &se) {
		return se
	}

	code := CodeOf(err)
	out := &StructuredError{
		Code:       code,
		Message:    err.Error(),
		Retryable:  code.IsRetryable(),
		Suggestion: code.Suggestion(),
	}

	var remote *RemoteError
	if errors.As(err, &remote) {
		out.Message = strings.TrimSpace(firstNonEmpty(remote.Message, remote.Error()))
		out.Remote = remote.Body
		out.Context = map[string]any{"status_code": remote.StatusCode}
		if remote.Kind != "" {
			out.Context["kind"] = remote.Kind
		}
		if remote.RequestID != "" {
			out.Context["request_id"] = remote.RequestID
		}
		return out
	}

	var transport *TransportError
	if errors.As(err, &transport) && transport.StatusCode != 0 {
		out.Context = map[string]any{"status_code": transport.StatusCode}
	}
	return out
}
