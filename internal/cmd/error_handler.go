package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cig-platform/backoffice-bff-client/internal/api"
	"github.com/cig-platform/backoffice-bff-client/internal/config"
)

// HandleError renders err for humans, with suggestions.
func HandleError(err error) string {
	if err == nil {
		return ""
	}

	var msg strings.Builder
	var remote *api.RemoteError
	var transport *api.TransportError
	var fieldErr *api.FieldError

	switch {
	case errors.Is(err, config.ErrNotConfigured):
		msg.WriteString("No BFF connection configured.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Run: cig-bff auth login --url <base-url> --token <token>\n")
		msg.WriteString("  - Or set CIG_BFF_URL and CIG_TOKEN\n")

	case errors.As(err, &remote):
		kind := remote.Kind
		if kind == "" {
			kind = "error"
		}
		fmt.Fprintf(&msg, "BFF %s (HTTP %d): %s\n\n", kind, remote.StatusCode, firstLine(remote.Message, string(remote.Body)))
		msg.WriteString(suggestionsFor(api.CodeOf(err)))
		if remote.RequestID != "" {
			fmt.Fprintf(&msg, "\nRequest ID: %s\n", remote.RequestID)
		}

	case errors.As(err, &fieldErr):
		fmt.Fprintf(&msg, "Invalid field %q: %s\n", fieldErr.Field, fieldErr.Reason)

	case errors.As(err, &transport):
		if transport.StatusCode != 0 {
			fmt.Fprintf(&msg, "Unexpected response (HTTP %d) from %s\n\n", transport.StatusCode, transport.URL)
		} else {
			fmt.Fprintf(&msg, "Request failed: %v\n\n", transport.Err)
		}
		msg.WriteString(suggestionsFor(api.CodeOf(err)))

	default:
		fmt.Fprintf(&msg, "Error: %s\n", err.Error())
	}

	return msg.String()
}

func suggestionsFor(code api.ErrorCode) string {
	var s strings.Builder
	s.WriteString("Suggestions:\n")
	if hint := code.Suggestion(); hint != "" {
		fmt.Fprintf(&s, "  - %s\n", hint)
	}
	if code.IsRetryable() {
		s.WriteString("  - The request is safe to retry\n")
	}
	s.WriteString("  - Use --debug for more details\n")
	return s.String()
}

func firstLine(values ...string) string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if i := strings.IndexByte(v, '\n'); i >= 0 {
			return v[:i]
		}
		return v
	}
	return ""
}
