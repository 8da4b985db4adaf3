package api

import (
	"context"
	"encoding/json"
)

// PathResolver builds request paths from identifiers.
type PathResolver interface {
	// resourcePath substitutes path-escaped ids into format, in order.
	// Example: resourcePath("/v1/breeders/%s", "b 1") -> "/v1/breeders/b%201"
	resourcePath(format string, ids ...string) string
}

// HTTPExecutor encodes and issues requests.
//
// execute never returns a Go error: every transport or remote failure is
// normalized into the Outcome. encode fails only for malformed field maps.
type HTTPExecutor interface {
	encode(req Request) (Body, error)
	execute(ctx context.Context, req Request, body Body) Outcome[json.RawMessage]
}

// Requester combines PathResolver and HTTPExecutor to provide the complete
// request surface used by resource services.
type Requester interface {
	PathResolver
	HTTPExecutor
}

// Compile-time interface implementation checks
var (
	_ Requester    = (*Client)(nil)
	_ PathResolver = (*Client)(nil)
	_ HTTPExecutor = (*Client)(nil)
)
