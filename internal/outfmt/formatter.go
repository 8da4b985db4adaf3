package outfmt

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Formatter writes command results in the mode carried by its context.
type Formatter struct {
	ctx       context.Context
	out       io.Writer
	errOut    io.Writer
	tabWriter *tabwriter.Writer
}

// NewFormatter creates a new Formatter
func NewFormatter(ctx context.Context, out, errOut io.Writer) *Formatter {
	return &Formatter{
		ctx:       ctx,
		out:       out,
		errOut:    errOut,
		tabWriter: tabwriter.NewWriter(out, 0, 4, 2, ' ', 0),
	}
}

// Output writes data as JSON or JSONL after applying the context query.
// It returns false without writing in text mode.
func (f *Formatter) Output(data any) (bool, error) {
	if !IsJSON(f.ctx) {
		return false, nil
	}
	result, err := ApplyQuery(data, GetQuery(f.ctx))
	if err != nil {
		return true, err
	}
	if ModeFromContext(f.ctx) == JSONL {
		return true, WriteJSONL(f.out, result)
	}
	return true, WriteJSON(f.out, result, IsCompact(f.ctx))
}

// StartTable writes table headers.
func (f *Formatter) StartTable(headers ...string) {
	f.Row(headers...)
}

// Row writes a single row to the table.
func (f *Formatter) Row(columns ...string) {
	_, _ = fmt.Fprintln(f.tabWriter, strings.Join(columns, "\t"))
}

// EndTable flushes the table output.
func (f *Formatter) EndTable() error {
	return f.tabWriter.Flush()
}

// Field writes one "label: value" line, skipping empty values.
func (f *Formatter) Field(label, value string) {
	if value == "" {
		return
	}
	_, _ = fmt.Fprintf(f.out, "%s: %s\n", label, value)
}

// Println writes a line of text.
func (f *Formatter) Println(a ...any) {
	_, _ = fmt.Fprintln(f.out, a...)
}

// Empty writes a message to stderr indicating no results.
func (f *Formatter) Empty(message string) {
	_, _ = fmt.Fprintln(f.errOut, message)
}
