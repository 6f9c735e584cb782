// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"sort"
)

// AlignmentWriters maps an output format to its handler. Handlers are
// registered in init() blocks and receive an alignmentArgs payload.
var AlignmentWriters = map[string]func(w io.Writer, payload interface{}) error{}

// RegisterAlignment installs fn for format (last registration wins).
func RegisterAlignment(format string, fn func(io.Writer, interface{}) error) {
	AlignmentWriters[format] = fn
}

// WriteAlignment dispatches payload to the handler registered for format.
func WriteAlignment(format string, w io.Writer, payload interface{}) error {
	fn, ok := AlignmentWriters[format]
	if !ok {
		return fmt.Errorf("unknown alignment format %q (no writer registered)", format)
	}
	return fn(w, payload)
}

// Formats lists the registered formats, sorted.
func Formats() []string {
	out := make([]string, 0, len(AlignmentWriters))
	for f := range AlignmentWriters {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}
