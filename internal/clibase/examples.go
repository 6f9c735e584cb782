// internal/clibase/examples.go
package clibase

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"cloudalign/internal/output"
	"cloudalign/internal/seeds"
)

// ErrPrintedAndExitOK is returned by ParseArgs for --examples; the app
// prints the quickstart and exits 0.
var ErrPrintedAndExitOK = errors.New("examples requested")

// PrintExamples writes a quickstart: title, body, then the accepted input
// and output formats.
func PrintExamples(out io.Writer, name string, body func(io.Writer)) {
	if out == nil {
		return
	}
	_, _ = fmt.Fprintf(out, "%s quickstart\n\n", name)
	if body != nil {
		body(out)
	}
	_, _ = fmt.Fprintf(out, "\nSeed formats:   %s\n", strings.Join([]string{seeds.FormatAuto, seeds.FormatJSON, seeds.FormatMMseqs}, ", "))
	_, _ = fmt.Fprintf(out, "Output formats: %s\n", strings.Join([]string{output.FormatText, output.FormatJSON, output.FormatJSONL}, ", "))
	_, _ = fmt.Fprintf(out, "Run %s --help for all flags.\n", name)
}
