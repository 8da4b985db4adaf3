package cmd

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"testing"
)

type formPart struct {
	Name     string
	FileName string
	Content  string
}

// formParts decodes a recorded multipart/form-data body.
func formParts(t *testing.T, req recordedRequest) []formPart {
	t.Helper()
	mediaType, params, err := mime.ParseMediaType(req.ContentType)
	if err != nil || mediaType != "multipart/form-data" {
		t.Fatalf("expected multipart/form-data, got %q (%v)", req.ContentType, err)
	}
	reader := multipart.NewReader(bytes.NewReader(req.Body), params["boundary"])
	var parts []formPart
	for {
		p, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return parts
		}
		if err != nil {
			t.Fatalf("reading part: %v", err)
		}
		data, _ := io.ReadAll(p)
		parts = append(parts, formPart{Name: p.FormName(), FileName: p.FileName(), Content: string(data)})
	}
}

// partsByName groups part contents by form name.
func partsByName(parts []formPart) map[string][]string {
	out := make(map[string][]string)
	for _, p := range parts {
		out[p.Name] = append(out[p.Name], p.Content)
	}
	return out
}
