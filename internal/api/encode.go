package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strconv"
	"strings"
)

// DefaultFileFields are the field names the BFF reads uploaded files from.
var DefaultFileFields = []string{"newImages", "files"}

const (
	contentTypeJSON        = "application/json"
	contentTypeOctetStream = "application/octet-stream"
)

// File is a binary attachment sent as a single multipart part.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// FieldMap is an ordered set of named request fields.
// Setting a name that is already present replaces its value and keeps its position.
type FieldMap struct {
	names  []string
	values map[string]any
}

// NewFieldMap returns an empty FieldMap.
func NewFieldMap() *FieldMap {
	return &FieldMap{values: make(map[string]any)}
}

// Set stores value under name and returns the map for chaining.
func (m *FieldMap) Set(name string, value any) *FieldMap {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, ok := m.values[name]; !ok {
		m.names = append(m.names, name)
	}
	m.values[name] = value
	return m
}

// Get returns the value stored under name.
func (m *FieldMap) Get(name string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[name]
	return v, ok
}

// Names returns the field names in insertion order.
func (m *FieldMap) Names() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Len returns the number of fields.
func (m *FieldMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.names)
}

// MarshalJSON encodes the map as a JSON object, keeping field order.
func (m *FieldMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if m != nil {
		for i, name := range m.names {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(name)
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			val, err := json.Marshal(m.values[name])
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", name, err)
			}
			buf.Write(val)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// FieldsOf flattens the top-level JSON fields of v into a FieldMap, in the
// order encoding/json emits them. Fields dropped by omitempty are absent.
func FieldsOf(v any) (*FieldMap, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, &FieldError{Reason: "cannot encode record", Err: err}
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, &FieldError{Reason: "cannot decode record", Err: err}
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, &FieldError{Reason: fmt.Sprintf("record must encode to a JSON object, got %v", tok)}
	}
	fields := NewFieldMap()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, &FieldError{Reason: "cannot decode record", Err: err}
		}
		key, _ := keyTok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, &FieldError{Field: key, Reason: "cannot decode value", Err: err}
		}
		fields.Set(key, raw)
	}
	return fields, nil
}

// Encoding selects how a request's FieldMap is put on the wire.
type Encoding int

const (
	// EncodeAuto sends multipart only when an allow-listed field carries files.
	EncodeAuto Encoding = iota
	// EncodeMultipart always sends multipart form-data.
	EncodeMultipart
)

// BodyKind describes an encoded request body.
type BodyKind int

const (
	BodyNone BodyKind = iota
	BodyJSON
	BodyMultipart
)

func (k BodyKind) String() string {
	switch k {
	case BodyJSON:
		return "json"
	case BodyMultipart:
		return "multipart"
	default:
		return "none"
	}
}

// Body is a wire-ready request body and the Content-Type that describes it.
type Body struct {
	Kind        BodyKind
	ContentType string
	Data        []byte
}

// Reader returns a fresh reader over the body, or nil when there is none.
func (b Body) Reader() io.Reader {
	if b.Kind == BodyNone {
		return nil
	}
	return bytes.NewReader(b.Data)
}

// Encoder turns a FieldMap into a Body. The set of attachment-bearing field
// names is fixed per encoder.
type Encoder struct {
	fileFields map[string]struct{}
	boundary   string
}

// NewEncoder returns an Encoder that treats fileFields as attachment lists.
func NewEncoder(fileFields ...string) Encoder {
	set := make(map[string]struct{}, len(fileFields))
	for _, name := range fileFields {
		set[name] = struct{}{}
	}
	return Encoder{fileFields: set}
}

// WithBoundary returns a copy of e that writes multipart bodies with a fixed boundary.
func (e Encoder) WithBoundary(boundary string) Encoder {
	e.boundary = boundary
	return e
}

// IsFileField reports whether name is on the attachment allow-list.
func (e Encoder) IsFileField(name string) bool {
	_, ok := e.fileFields[name]
	return ok
}

// Encode builds the body for fields. A nil or empty map under EncodeAuto yields
// no body. Values under allow-listed names must be []File.
func (e Encoder) Encode(fields *FieldMap, mode Encoding) (Body, error) {
	hasFiles, err := e.hasFiles(fields)
	if err != nil {
		return Body{}, err
	}
	if hasFiles || mode == EncodeMultipart {
		return e.encodeMultipart(fields)
	}
	if fields == nil {
		return Body{Kind: BodyNone}, nil
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return Body{}, &FieldError{Reason: "cannot encode JSON body", Err: err}
	}
	return Body{Kind: BodyJSON, ContentType: contentTypeJSON, Data: data}, nil
}

func (e Encoder) hasFiles(fields *FieldMap) (bool, error) {
	found := false
	for _, name := range fields.Names() {
		if !e.IsFileField(name) {
			continue
		}
		value, _ := fields.Get(name)
		files, ok := value.([]File)
		if !ok && value != nil {
			return false, &FieldError{Field: name, Reason: fmt.Sprintf("attachment field holds %T, want []api.File", value)}
		}
		if len(files) > 0 {
			found = true
		}
	}
	return found, nil
}

func (e Encoder) encodeMultipart(fields *FieldMap) (Body, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if e.boundary != "" {
		if err := w.SetBoundary(e.boundary); err != nil {
			return Body{}, &FieldError{Reason: "invalid multipart boundary", Err: err}
		}
	}

	for _, name := range fields.Names() {
		value, _ := fields.Get(name)
		if e.IsFileField(name) {
			files, _ := value.([]File)
			for i, f := range files {
				if err := writeFilePart(w, name, f); err != nil {
					return Body{}, &FieldError{Field: name, Reason: fmt.Sprintf("cannot write file %d", i), Err: err}
				}
			}
			continue
		}
		text, ok, err := fieldText(value)
		if err != nil {
			return Body{}, &FieldError{Field: name, Reason: "cannot encode value", Err: err}
		}
		if !ok {
			continue
		}
		if err := w.WriteField(name, text); err != nil {
			return Body{}, &FieldError{Field: name, Reason: "cannot write field", Err: err}
		}
	}

	if err := w.Close(); err != nil {
		return Body{}, &FieldError{Reason: "cannot close multipart body", Err: err}
	}
	return Body{Kind: BodyMultipart, ContentType: w.FormDataContentType(), Data: buf.Bytes()}, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func writeFilePart(w *multipart.Writer, field string, f File) error {
	filename := f.Name
	if filename == "" {
		filename = field
	}
	contentType := f.ContentType
	if contentType == "" {
		contentType = contentTypeOctetStream
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(filename)))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = part.Write(f.Data)
	return err
}

// fieldText renders a non-file value as a text part. Records, maps and
// slices become JSON text. Nil values produce no part.
func fieldText(value any) (string, bool, error) {
	switch v := value.(type) {
	case nil:
		return "", false, nil
	case string:
		return v, true, nil
	case bool:
		return strconv.FormatBool(v), true, nil
	case int:
		return strconv.Itoa(v), true, nil
	case int64:
		return strconv.FormatInt(v, 10), true, nil
	case json.RawMessage:
		trimmed := bytes.TrimSpace(v)
		if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
			return "", false, nil
		}
		if trimmed[0] == '"' {
			var s string
			if err := json.Unmarshal(trimmed, &s); err != nil {
				return "", false, err
			}
			return s, true, nil
		}
		return string(trimmed), true, nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", false, err
		}
		return string(data), true, nil
	}
}
