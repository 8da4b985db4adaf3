// Package dryrun previews mutating requests instead of sending them.
package dryrun

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
)

// ErrSkipped is returned by Transport for every request it did not send.
var ErrSkipped = errors.New("request not sent (dry-run)")

type contextKey string

const dryRunKey contextKey = "dry_run_enabled"

// WithDryRun returns a context with dry-run mode enabled/disabled.
func WithDryRun(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, dryRunKey, enabled)
}

// IsEnabled returns true if dry-run mode is enabled.
func IsEnabled(ctx context.Context) bool {
	if v, ok := ctx.Value(dryRunKey).(bool); ok {
		return v
	}
	return false
}

// Part is one multipart part of a previewed body.
type Part struct {
	Name     string `json:"name"`
	FileName string `json:"filename,omitempty"`
	Size     int    `json:"size,omitempty"`
	Value    string `json:"value,omitempty"`
}

// Preview describes a request that would have been sent.
type Preview struct {
	DryRun      bool   `json:"dry_run"`
	Method      string `json:"method"`
	URL         string `json:"url"`
	ContentType string `json:"content_type,omitempty"`
	Body        string `json:"body,omitempty"`
	Parts       []Part `json:"parts,omitempty"`
}

// Describe reads req's body into a Preview. Multipart bodies are listed part
// by part, with attachments reduced to their file name and size.
func Describe(req *http.Request) (*Preview, error) {
	p := &Preview{
		DryRun:      true,
		Method:      req.Method,
		URL:         req.URL.String(),
		ContentType: req.Header.Get("Content-Type"),
	}
	if req.Body == nil {
		return p, nil
	}
	data, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}

	mediaType, params, err := mime.ParseMediaType(p.ContentType)
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		p.Body = string(data)
		return p, nil
	}
	reader := multipart.NewReader(bytes.NewReader(data), params["boundary"])
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read multipart body: %w", err)
		}
		content, err := io.ReadAll(part)
		if err != nil {
			return nil, fmt.Errorf("failed to read part %q: %w", part.FormName(), err)
		}
		entry := Part{Name: part.FormName(), FileName: part.FileName()}
		if entry.FileName != "" {
			entry.Size = len(content)
		} else {
			entry.Value = string(content)
		}
		p.Parts = append(p.Parts, entry)
	}
	return p, nil
}

// Write outputs the preview to the writer
func (p *Preview) Write(w io.Writer) {
	_, _ = fmt.Fprintf(w, "\n[DRY-RUN] Would %s %s\n", p.Method, p.URL)
	_, _ = fmt.Fprintf(w, "───────────────────────────────────────\n")

	if p.ContentType != "" {
		_, _ = fmt.Fprintf(w, "Content-Type: %s\n\n", p.ContentType)
	}
	if p.Body != "" {
		_, _ = fmt.Fprintf(w, "%s\n\n", p.Body)
	}
	if len(p.Parts) > 0 {
		for _, part := range p.Parts {
			if part.FileName != "" {
				_, _ = fmt.Fprintf(w, "  %s: %s (%d bytes)\n", part.Name, part.FileName, part.Size)
				continue
			}
			_, _ = fmt.Fprintf(w, "  %s: %s\n", part.Name, part.Value)
		}
		_, _ = fmt.Fprintln(w)
	}

	_, _ = fmt.Fprintf(w, "───────────────────────────────────────\n")
	_, _ = fmt.Fprintln(w, "No changes made (dry-run mode)")
}

// Transport sends safe requests through Base and hands every other request
// to Emit instead of sending it.
type Transport struct {
	Base http.RoundTripper
	Emit func(*Preview) error
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	switch req.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		base := t.Base
		if base == nil {
			base = http.DefaultTransport
		}
		return base.RoundTrip(req)
	}
	preview, err := Describe(req)
	if err != nil {
		return nil, err
	}
	if t.Emit != nil {
		if err := t.Emit(preview); err != nil {
			return nil, err
		}
	}
	return nil, ErrSkipped
}
