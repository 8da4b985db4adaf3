package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnexpectedStatus is the cause recorded for non-2xx responses that carry
// no structured error body.
var ErrUnexpectedStatus = errors.New("unexpected response status")

// FieldError reports a FieldMap that cannot be encoded. It signals a caller
// bug and is never folded into an Outcome.
type FieldError struct {
	Field  string
	Reason string
	Err    error
}

func (e *FieldError) Error() string {
	msg := e.Reason
	if e.Field != "" {
		msg = fmt.Sprintf("field %q: %s", e.Field, e.Reason)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return "invalid request fields: " + msg
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// RemoteError is an error body returned by the BFF, kept verbatim.
type RemoteError struct {
	StatusCode int
	RequestID  string
	Kind       string
	Message    string
	Body       json.RawMessage
}

func (e *RemoteError) Error() string {
	kind := e.Kind
	if kind == "" {
		kind = string(ErrorCodeFromStatus(e.StatusCode))
	}
	if e.Message == "" {
		return fmt.Sprintf("remote error %s (status %d)", kind, e.StatusCode)
	}
	return fmt.Sprintf("remote error %s (status %d): %s", kind, e.StatusCode, e.Message)
}

// MarshalJSON emits the remote body unchanged.
func (e *RemoteError) MarshalJSON() ([]byte, error) {
	if len(e.Body) == 0 {
		return []byte("null"), nil
	}
	return e.Body, nil
}

// parseRemoteError returns a RemoteError when body is a JSON object.
// Both the flat {"errorKind","message"} shape and the nested
// {"error":{"name","message"}} shape are understood.
func parseRemoteError(status int, requestID string, body []byte) (*RemoteError, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' || !json.Valid(trimmed) {
		return nil, false
	}
	var shape struct {
		ErrorKind string          `json:"errorKind"`
		Name      string          `json:"name"`
		Message   string          `json:"message"`
		Error     json.RawMessage `json:"error"`
	}
	_ = json.Unmarshal(trimmed, &shape)

	remote := &RemoteError{
		StatusCode: status,
		RequestID:  requestID,
		Kind:       firstNonEmpty(shape.ErrorKind, shape.Name),
		Message:    shape.Message,
		Body:       append(json.RawMessage(nil), trimmed...),
	}
	if len(shape.Error) > 0 {
		var nested struct {
			ErrorKind string `json:"errorKind"`
			Name      string `json:"name"`
			Message   string `json:"message"`
		}
		var flat string
		switch {
		case json.Unmarshal(shape.Error, &nested) == nil:
			remote.Kind = firstNonEmpty(remote.Kind, nested.ErrorKind, nested.Name)
			remote.Message = firstNonEmpty(remote.Message, nested.Message)
		case json.Unmarshal(shape.Error, &flat) == nil:
			remote.Message = firstNonEmpty(remote.Message, flat)
		}
	}
	return remote, true
}

// TransportError is any failure without a structured body: network errors,
// timeouts, cancellation, non-JSON error responses, undecodable success bodies.
type TransportError struct {
	Method     string
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s failed (status %d): %v", e.Method, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsRemoteError reports whether err carries a structured BFF error body.
func IsRemoteError(err error) bool {
	var e *RemoteError
	return errors.As(err, &e)
}

// IsNotFoundError checks if the error indicates a resource was not found.
func IsNotFoundError(err error) bool {
	return CodeOf(err) == ErrNotFound
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
