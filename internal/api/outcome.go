package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Outcome is the result of every call. On success OK is set and Value holds
// the decoded body. On failure Value holds the operation's fallback (an empty
// collection for list operations, the zero value otherwise), Failure holds
// the BFF's error body when one was returned, and Cause records what went wrong.
type Outcome[T any] struct {
	OK      bool
	Value   T
	Failure *RemoteError
	Cause   error
}

// Structured reports whether the failure carries a BFF error body.
func (o Outcome[T]) Structured() bool {
	return o.Failure != nil
}

// Err returns nil on success, the *RemoteError for structured failures,
// and a *TransportError (or the recorded cause) otherwise.
func (o Outcome[T]) Err() error {
	if o.OK {
		return nil
	}
	if o.Failure != nil {
		return o.Failure
	}
	if o.Cause != nil {
		return o.Cause
	}
	return &TransportError{Err: ErrUnexpectedStatus}
}

func succeeded[T any](v T) Outcome[T] {
	return Outcome[T]{OK: true, Value: v}
}

func failed[T any](fallback T, failure *RemoteError, cause error) Outcome[T] {
	if cause == nil && failure != nil {
		cause = failure
	}
	return Outcome[T]{Value: fallback, Failure: failure, Cause: cause}
}

// decodeOutcome decodes a raw success body into T. A body that does not
// decode is an unstructured failure.
func decodeOutcome[T any](raw Outcome[json.RawMessage], fallback T) Outcome[T] {
	if !raw.OK {
		return failed(fallback, raw.Failure, raw.Cause)
	}
	var v T
	if len(bytes.TrimSpace(raw.Value)) == 0 {
		return succeeded(v)
	}
	if err := json.Unmarshal(raw.Value, &v); err != nil {
		return failed(fallback, nil, &TransportError{Err: fmt.Errorf("unexpected API response format (JSON decode failed): %w", err)})
	}
	return succeeded(v)
}

// mapOutcome shapes a successful value; failures keep their cause and take fallback.
func mapOutcome[T, U any](o Outcome[T], shape func(T) U, fallback U) Outcome[U] {
	if !o.OK {
		return failed(fallback, o.Failure, o.Cause)
	}
	return succeeded(shape(o.Value))
}
