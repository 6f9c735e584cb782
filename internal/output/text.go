// internal/output/text.go
package output

import (
	"fmt"
	"io"

	"cloudalign-core/align"
)

// Renderer returns an optional block printed after each TSV row.
type Renderer func(*align.Alignment) string

func writeRow(w io.Writer, a *align.Alignment, render Renderer) error {
	if _, err := fmt.Fprintln(w, FormatRowTSV(a)); err != nil {
		return err
	}
	if render == nil {
		return nil
	}
	if block := render(a); block != "" {
		if _, err := io.WriteString(w, block); err != nil {
			return err
		}
	}
	return nil
}

// WriteText prints the header (optional) and one TSV row per alignment.
func WriteText(w io.Writer, list []*align.Alignment, header bool, render Renderer) error {
	if header {
		if _, err := fmt.Fprintln(w, TSVHeader); err != nil {
			return err
		}
	}
	for _, a := range list {
		if err := writeRow(w, a, render); err != nil {
			return err
		}
	}
	return nil
}

// StreamText is WriteText over a channel; rows are written as they arrive.
func StreamText(w io.Writer, in <-chan *align.Alignment, header bool, render Renderer) error {
	if header {
		if _, err := fmt.Fprintln(w, TSVHeader); err != nil {
			return err
		}
	}
	for a := range in {
		if err := writeRow(w, a, render); err != nil {
			return err
		}
	}
	return nil
}
