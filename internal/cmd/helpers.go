package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/cig-platform/backoffice-bff-client/internal/api"
	"github.com/cig-platform/backoffice-bff-client/internal/dryrun"
	"github.com/cig-platform/backoffice-bff-client/internal/iocontext"
	"github.com/cig-platform/backoffice-bff-client/internal/outfmt"
)

func setDefaultLogger(l *slog.Logger) {
	slog.SetDefault(l)
}

func cmdContext(cmd *cobra.Command) context.Context {
	return cmd.Context()
}

// isJSON checks if the command context wants JSON output
func isJSON(cmd *cobra.Command) bool {
	return outfmt.IsJSON(cmd.Context())
}

func formatter(cmd *cobra.Command) *outfmt.Formatter {
	ioStreams := iocontext.GetIO(cmd.Context())
	return outfmt.NewFormatter(cmd.Context(), ioStreams.Out, ioStreams.ErrOut)
}

// printJSON outputs data as JSON with the --jq query applied.
func printJSON(cmd *cobra.Command, v any) error {
	_, err := formatter(cmd).Output(v)
	return err
}

// printJSONErr writes a JSON value to stderr.
func printJSONErr(cmd *cobra.Command, v any) error {
	ioStreams := iocontext.GetIO(cmd.Context())
	return outfmt.WriteJSON(ioStreams.ErrOut, v, outfmt.IsCompact(cmd.Context()))
}

// printAck reports a mutation. JSON modes print the BFF acknowledgement.
func printAck(cmd *cobra.Command, ack api.Ack, action, resource, id string) error {
	if isJSON(cmd) {
		return printJSON(cmd, ack)
	}
	message := fmt.Sprintf("%s %s", action, resource)
	if id != "" {
		message = fmt.Sprintf("%s %s", message, id)
	}
	_, _ = fmt.Fprintln(iocontext.GetIO(cmd.Context()).Out, message)
	return nil
}

// outcomeValue returns the value of a successful outcome, or its error.
func outcomeValue[T any](o api.Outcome[T]) (T, error) {
	if err := o.Err(); err != nil {
		return o.Value, err
	}
	return o.Value, nil
}

// listValue is outcomeValue for list operations: an unstructured failure
// yields the operation's empty fallback, logged at Debug. Errors reported by
// the BFF are still returned.
func listValue[T any](cmd *cobra.Command, o api.Outcome[T], resource string) (T, error) {
	if o.OK {
		return o.Value, nil
	}
	if o.Structured() {
		return o.Value, o.Err()
	}
	slog.DebugContext(cmd.Context(), "list failed, showing empty result", "resource", resource, "error", o.Err())
	return o.Value, nil
}

// readAttachments loads files named on the command line.
func readAttachments(paths []string) ([]api.File, error) {
	files := make([]api.File, 0, len(paths))
	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read attachment: %w", err)
		}
		files = append(files, api.File{
			Name:        filepath.Base(path),
			ContentType: detectContentType(path, data),
			Data:        data,
		})
	}
	return files, nil
}

func detectContentType(path string, data []byte) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); ct != "" {
		return ct
	}
	return http.DetectContentType(data)
}

// splitList splits comma separated flag values, dropping blanks.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// optionalBool returns a pointer to the flag value when it was set.
func optionalBool(cmd *cobra.Command, name string, value bool) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}

// aliasBridgeValue marks the canonical flag as Changed when the alias is set,
// so aliases satisfy required-flag checks.
type aliasBridgeValue struct {
	pflag.Value
	canonical *pflag.Flag
}

func (v *aliasBridgeValue) Set(s string) error {
	if err := v.Value.Set(s); err != nil {
		return err
	}
	v.canonical.Changed = true
	return nil
}

type aliasBridgeSliceValue struct {
	aliasBridgeValue
	slice pflag.SliceValue
}

func (v *aliasBridgeSliceValue) Append(s string) error     { return v.slice.Append(s) }
func (v *aliasBridgeSliceValue) Replace(ss []string) error { return v.slice.Replace(ss) }
func (v *aliasBridgeSliceValue) GetSlice() []string        { return v.slice.GetSlice() }

// flagAlias registers a hidden alias sharing the value of flag name.
func flagAlias(fs *pflag.FlagSet, name, alias string) {
	f := fs.Lookup(name)
	if f == nil {
		panic(fmt.Sprintf("flagAlias: flag %q not found", name))
	}
	a := *f
	a.Name = alias
	a.Shorthand = ""
	a.Usage = ""
	a.Hidden = true
	bridge := &aliasBridgeValue{Value: f.Value, canonical: f}
	if sv, ok := f.Value.(pflag.SliceValue); ok {
		a.Value = &aliasBridgeSliceValue{aliasBridgeValue: *bridge, slice: sv}
	} else {
		a.Value = bridge
	}
	ann := map[string][]string{"alias-of": {name}}
	for k, v := range f.Annotations {
		if k == cobra.BashCompOneRequiredFlag {
			continue
		}
		ann[k] = v
	}
	a.Annotations = ann
	fs.AddFlag(&a)
}

// flagOrAliasChanged returns true if the named flag or any of its
// hidden aliases was explicitly set by the user.
func flagOrAliasChanged(cmd *cobra.Command, name string) bool {
	if cmd.Flags().Changed(name) || cmd.InheritedFlags().Changed(name) {
		return true
	}
	aliasChanged := func(fs *pflag.FlagSet) bool {
		found := false
		fs.VisitAll(func(f *pflag.Flag) {
			if ann, ok := f.Annotations["alias-of"]; ok && len(ann) > 0 && ann[0] == name && fs.Changed(f.Name) {
				found = true
			}
		})
		return found
	}
	return aliasChanged(cmd.Flags()) || aliasChanged(cmd.InheritedFlags())
}

// errAlreadyHandled signals that the error was already printed to stderr.
var errAlreadyHandled = errors.New("error already handled")

type handledError struct {
	err      error
	exitCode int
}

func (e *handledError) Error() string {
	return e.err.Error()
}

func (e *handledError) Unwrap() []error {
	return []error{errAlreadyHandled, e.err}
}

func (e *handledError) ExitCode() int {
	return e.exitCode
}

// RunE wraps a command function with error rendering: a structured JSON
// error on stderr in JSON modes, suggestions otherwise.
func RunE(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if err == nil || errors.Is(err, dryrun.ErrSkipped) {
			return nil
		}
		if isJSON(cmd) {
			_ = printJSONErr(cmd, api.StructuredErrorFromError(err))
		} else {
			_, _ = fmt.Fprint(cmd.ErrOrStderr(), HandleError(err))
		}
		return &handledError{err: err, exitCode: ExitCode(err)}
	}
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

// truncate shortens s to max runes, marking the cut with "...".
func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= max || max < 4 {
		return s
	}
	return string(runes[:max-3]) + "..."
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64)
}
