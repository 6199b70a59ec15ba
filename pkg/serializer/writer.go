/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

package serializer

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Format selects the output encoding.
type Format string

const (
	// FormatJSON emits indented JSON.
	FormatJSON Format = "json"
	// FormatYAML emits YAML.
	FormatYAML Format = "yaml"
	// FormatTable emits a flattened FIELD/VALUE table for human reading.
	FormatTable Format = "table"
)

// IsUnknown reports whether f is not one of the supported formats.
func (f Format) IsUnknown() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatTable:
		return false
	default:
		return true
	}
}

// SupportedFormats returns the names of all supported output formats.
func SupportedFormats() []string {
	return []string{string(FormatJSON), string(FormatYAML), string(FormatTable)}
}

// Writer serializes values to an output destination.
type Writer interface {
	Serialize(ctx context.Context, data any) error
}

// Closer is implemented by writers that own their destination and must be
// closed after use.
type Closer interface {
	Close() error
}

type writer struct {
	format Format
	out    io.Writer
	closer io.Closer
}

// NewWriter returns a Writer emitting the given format to out. Unknown
// formats fall back to JSON.
func NewWriter(format Format, out io.Writer) Writer {
	if format.IsUnknown() {
		format = FormatJSON
	}
	if out == nil {
		out = os.Stdout
	}
	return &writer{format: format, out: out}
}

// NewStdoutWriter returns a Writer emitting the given format to stdout.
func NewStdoutWriter(format Format) Writer {
	return NewWriter(format, os.Stdout)
}

// NewFileWriterOrStdout returns a Writer for the given output path. An empty
// path or StdoutURI selects stdout; anything else creates (or truncates) the
// file. File-backed writers implement Closer and must be closed.
func NewFileWriterOrStdout(format Format, path string) (Writer, error) {
	path = strings.TrimSpace(path)
	if path == "" || path == StdoutURI {
		return NewStdoutWriter(format), nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %s: %w", path, err)
	}
	if format.IsUnknown() {
		format = FormatJSON
	}
	return &writer{format: format, out: f, closer: f}, nil
}

// Serialize encodes data in the writer's format.
func (w *writer) Serialize(_ context.Context, data any) error {
	switch w.format {
	case FormatYAML:
		enc := yaml.NewEncoder(w.out)
		if err := enc.Encode(data); err != nil {
			return fmt.Errorf("failed to serialize to yaml: %w", err)
		}
		return enc.Close()
	case FormatTable:
		return w.writeTable(data)
	default:
		enc := json.NewEncoder(w.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(data); err != nil {
			return fmt.Errorf("failed to serialize to json: %w", err)
		}
		return nil
	}
}

// Close closes the underlying file, if any. Safe to call more than once.
func (w *writer) Close() error {
	if w.closer == nil {
		return nil
	}
	c := w.closer
	w.closer = nil
	return c.Close()
}

// writeTable renders data as a two-column table of flattened field paths.
// The value is round-tripped through JSON so struct tags and nesting behave
// the same as in the JSON output.
func (w *writer) writeTable(data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to flatten data for table: %w", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return fmt.Errorf("failed to flatten data for table: %w", err)
	}

	var rows [][2]string
	flatten("", generic, &rows)

	tw := tabwriter.NewWriter(w.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tVALUE")
	if len(rows) == 0 {
		fmt.Fprintln(tw, "<empty>\t")
	}
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1])
	}
	return tw.Flush()
}

// flatten appends one row per scalar leaf, joining nested keys with dots and
// slice indices with brackets.
func flatten(prefix string, v any, rows *[][2]string) {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			flatten(joinKey(prefix, k), t[k], rows)
		}
	case []any:
		for i, item := range t {
			flatten(fmt.Sprintf("%s[%d]", prefix, i), item, rows)
		}
	case nil:
		*rows = append(*rows, [2]string{prefix, "<nil>"})
	default:
		*rows = append(*rows, [2]string{prefix, fmt.Sprintf("%v", t)})
	}
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
