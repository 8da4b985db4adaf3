package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"mime"
	"mime/multipart"
	"reflect"
	"strings"
	"testing"
)

type testPart struct {
	Name        string
	FileName    string
	ContentType string
	Content     string
}

// readParts parses a multipart body into its parts, in wire order.
func readParts(t *testing.T, contentType string, body []byte) []testPart {
	t.Helper()
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		t.Fatalf("invalid content type %q: %v", contentType, err)
	}
	if mediaType != "multipart/form-data" {
		t.Fatalf("Expected multipart/form-data, got %s", mediaType)
	}
	reader := multipart.NewReader(bytes.NewReader(body), params["boundary"])
	var parts []testPart
	for {
		p, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("failed to read part: %v", err)
		}
		data, err := io.ReadAll(p)
		if err != nil {
			t.Fatalf("failed to read part content: %v", err)
		}
		parts = append(parts, testPart{
			Name:        p.FormName(),
			FileName:    p.FileName(),
			ContentType: p.Header.Get("Content-Type"),
			Content:     string(data),
		})
	}
	return parts
}

func TestFieldMap_SetKeepsOrderAndReplaces(t *testing.T) {
	m := NewFieldMap().Set("b", 1).Set("a", 2).Set("b", 3)

	if got := m.Names(); !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Errorf("Names() = %v, want [b a]", got)
	}
	if v, _ := m.Get("b"); v != 3 {
		t.Errorf("Get(b) = %v, want 3", v)
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}
}

func TestFieldMap_MarshalJSONKeepsOrder(t *testing.T) {
	m := NewFieldMap().Set("zeta", "z").Set("alpha", map[string]int{"n": 1})
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `{"zeta":"z","alpha":{"n":1}}` {
		t.Errorf("unexpected JSON: %s", data)
	}
}

func TestFieldMap_NilIsEmpty(t *testing.T) {
	var m *FieldMap
	if m.Len() != 0 || m.Names() != nil {
		t.Error("nil FieldMap should be empty")
	}
	if _, ok := m.Get("x"); ok {
		t.Error("nil FieldMap should not contain fields")
	}
}

func TestFieldsOf(t *testing.T) {
	fields, err := FieldsOf(Breeder{Name: "Farm A", Address: &Address{City: "Recife"}})
	if err != nil {
		t.Fatalf("FieldsOf failed: %v", err)
	}
	if got := fields.Names(); !reflect.DeepEqual(got, []string{"name", "address"}) {
		t.Errorf("Names() = %v, want [name address]", got)
	}
}

func TestFieldsOf_RejectsNonObject(t *testing.T) {
	_, err := FieldsOf([]string{"a"})
	var fieldErr *FieldError
	if !errors.As(err, &fieldErr) {
		t.Fatalf("expected FieldError, got %v", err)
	}
}

func TestEncode_PlainBodyEqualsInput(t *testing.T) {
	enc := NewEncoder(DefaultFileFields...)
	fields := NewFieldMap().
		Set("price", 150.5).
		Set("tags", []string{"a", "b"}).
		Set("files", []File{})

	body, err := enc.Encode(fields, EncodeAuto)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if body.Kind != BodyJSON {
		t.Fatalf("Expected JSON body, got %s", body.Kind)
	}
	if body.ContentType != "application/json" {
		t.Errorf("Expected application/json, got %s", body.ContentType)
	}

	var got, want map[string]any
	if err := json.Unmarshal(body.Data, &got); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	wantJSON, _ := json.Marshal(fields)
	_ = json.Unmarshal(wantJSON, &want)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("body = %v, want %v", got, want)
	}
}

func TestEncode_NilFieldsHasNoBody(t *testing.T) {
	body, err := NewEncoder().Encode(nil, EncodeAuto)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if body.Kind != BodyNone || body.Reader() != nil || body.ContentType != "" {
		t.Errorf("expected empty body, got %+v", body)
	}
}

func TestEncode_FilesRouteToMultipart(t *testing.T) {
	enc := NewEncoder(DefaultFileFields...)
	files := []File{
		{Name: "one.png", ContentType: "image/png", Data: []byte("first")},
		{Name: "two.png", Data: []byte("second")},
		{Data: []byte("third")},
	}
	fields := NewFieldMap().
		Set("name", "Farm A").
		Set("newImages", files).
		Set("ids", []string{"x", "y"})

	body, err := enc.Encode(fields, EncodeAuto)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if body.Kind != BodyMultipart {
		t.Fatalf("Expected multipart body, got %s", body.Kind)
	}

	parts := readParts(t, body.ContentType, body.Data)
	want := []testPart{
		{Name: "name", Content: "Farm A"},
		{Name: "newImages", FileName: "one.png", ContentType: "image/png", Content: "first"},
		{Name: "newImages", FileName: "two.png", ContentType: "application/octet-stream", Content: "second"},
		{Name: "newImages", FileName: "newImages", ContentType: "application/octet-stream", Content: "third"},
		{Name: "ids", Content: `["x","y"]`},
	}
	if len(parts) != len(want) {
		t.Fatalf("got %d parts, want %d: %+v", len(parts), len(want), parts)
	}
	for i := range want {
		got := parts[i]
		if got.Name != want[i].Name || got.FileName != want[i].FileName || got.Content != want[i].Content {
			t.Errorf("part %d = %+v, want %+v", i, got, want[i])
		}
		if want[i].ContentType != "" && got.ContentType != want[i].ContentType {
			t.Errorf("part %d content type = %q, want %q", i, got.ContentType, want[i].ContentType)
		}
	}
}

func TestEncode_ListFieldOutsideAllowListDoesNotTriggerMultipart(t *testing.T) {
	enc := NewEncoder("files")
	fields := NewFieldMap().Set("newImages", []File{{Data: []byte("x")}})

	body, err := enc.Encode(fields, EncodeAuto)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if body.Kind != BodyJSON {
		t.Errorf("Expected JSON body for non allow-listed name, got %s", body.Kind)
	}
}

func TestEncode_NestedRecordRoundTrips(t *testing.T) {
	poultry := Poultry{
		Name:   "Galo",
		Gender: "MALE",
		Colors: &PoultryColors{Plumage: "black", Eyes: "red"},
	}
	fields := NewFieldMap().Set("poultry", poultry)

	body, err := NewEncoder(DefaultFileFields...).Encode(fields, EncodeMultipart)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	parts := readParts(t, body.ContentType, body.Data)
	if len(parts) != 1 || parts[0].Name != "poultry" {
		t.Fatalf("unexpected parts: %+v", parts)
	}

	var decoded Poultry
	if err := json.Unmarshal([]byte(parts[0].Content), &decoded); err != nil {
		t.Fatalf("part is not JSON: %v", err)
	}
	if !reflect.DeepEqual(decoded, poultry) {
		t.Errorf("decoded = %+v, want %+v", decoded, poultry)
	}
}

func TestEncode_ForcedMultipartWithoutFiles(t *testing.T) {
	fields := NewFieldMap().
		Set("flag", true).
		Set("count", 3).
		Set("raw", json.RawMessage(`"quoted"`)).
		Set("skip", nil).
		Set("files", []File(nil))

	body, err := NewEncoder(DefaultFileFields...).WithBoundary("fixed-boundary").Encode(fields, EncodeMultipart)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !strings.Contains(body.ContentType, "boundary=fixed-boundary") {
		t.Errorf("boundary not applied: %s", body.ContentType)
	}
	parts := readParts(t, body.ContentType, body.Data)
	got := map[string]string{}
	for _, p := range parts {
		got[p.Name] = p.Content
	}
	want := map[string]string{"flag": "true", "count": "3", "raw": "quoted"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parts = %v, want %v", got, want)
	}
}

func TestEncode_DeterministicWithFixedBoundary(t *testing.T) {
	enc := NewEncoder(DefaultFileFields...).WithBoundary("b0undary")
	build := func() []byte {
		fields := NewFieldMap().Set("a", "1").Set("files", []File{{Name: "f", Data: []byte("x")}})
		body, err := enc.Encode(fields, EncodeAuto)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		return body.Data
	}
	if !bytes.Equal(build(), build()) {
		t.Error("expected identical bodies for identical input")
	}
}

func TestEncode_PreconditionViolations(t *testing.T) {
	tests := []struct {
		name   string
		fields *FieldMap
		field  string
	}{
		{
			name:   "string under file field",
			fields: NewFieldMap().Set("files", "not-a-list"),
			field:  "files",
		},
		{
			name:   "single file under file field",
			fields: NewFieldMap().Set("newImages", File{Data: []byte("x")}),
			field:  "newImages",
		},
		{
			name:   "unencodable value",
			fields: NewFieldMap().Set("price", math.NaN()),
			field:  "price",
		},
	}

	enc := NewEncoder(DefaultFileFields...)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := enc.Encode(tt.fields, EncodeMultipart)
			var fieldErr *FieldError
			if !errors.As(err, &fieldErr) {
				t.Fatalf("expected FieldError, got %v", err)
			}
			if fieldErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", fieldErr.Field, tt.field)
			}
			if CodeOf(err) != ErrInvalidInput {
				t.Errorf("CodeOf = %s, want %s", CodeOf(err), ErrInvalidInput)
			}
		})
	}
}

func TestEncode_QuotesInFileName(t *testing.T) {
	fields := NewFieldMap().Set("files", []File{{Name: `a"b.png`, Data: []byte("x")}})
	body, err := NewEncoder("files").Encode(fields, EncodeAuto)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	parts := readParts(t, body.ContentType, body.Data)
	if len(parts) != 1 || parts[0].FileName != `a"b.png` {
		t.Errorf("unexpected parts: %+v", parts)
	}
}
