// internal/writers/alignment.go
package writers

import (
	"io"

	"cloudalign-core/align"
	"cloudalign/internal/output"
	"cloudalign/internal/pretty"
)

type alignmentArgs struct {
	Sort   bool
	Header bool
	Pretty bool
	Opt    pretty.Options
	In     <-chan *align.Alignment
}

func drainAlignments(ch <-chan *align.Alignment, sorted bool) []*align.Alignment {
	list := make([]*align.Alignment, 0, 128)
	for a := range ch {
		list = append(list, a)
	}
	if sorted {
		align.Sort(list)
	}
	return list
}

func init() {
	// JSON array
	RegisterAlignment(output.FormatJSON, func(w io.Writer, payload interface{}) error {
		args := payload.(alignmentArgs)
		return output.WriteJSON(w, drainAlignments(args.In, args.Sort))
	})

	// JSONL streaming (buffered when sorting)
	RegisterAlignment(output.FormatJSONL, func(w io.Writer, payload interface{}) error {
		args := payload.(alignmentArgs)
		pipe, done := StartAlignmentJSONLWriter(w, 64)
		if args.Sort {
			for _, a := range drainAlignments(args.In, true) {
				pipe <- a
			}
		} else {
			for a := range args.In {
				pipe <- a
			}
		}
		close(pipe)
		return <-done
	})

	// TEXT/TSV (+ optional pretty blocks)
	RegisterAlignment(output.FormatText, func(w io.Writer, payload interface{}) error {
		args := payload.(alignmentArgs)
		var render output.Renderer
		if args.Pretty {
			render = func(a *align.Alignment) string { return pretty.RenderWithOptions(a, args.Opt) }
		}
		if args.Sort {
			return output.WriteText(w, drainAlignments(args.In, true), args.Header, render)
		}
		return output.StreamText(w, args.In, args.Header, render)
	})
}

// StartAlignmentWriter spins up a writer goroutine for alignments.
// With sort, output is buffered and ordered by align.Sort so it does not
// depend on worker scheduling.
func StartAlignmentWriter(out io.Writer, format string, sort, header, prettyMode bool, bufSize int) (chan<- *align.Alignment, <-chan error) {
	return StartAlignmentWriterWithPrettyOptions(out, format, sort, header, prettyMode, pretty.DefaultOptions, bufSize)
}

// StartAlignmentWriterWithPrettyOptions allows customizing the pretty renderer.
func StartAlignmentWriterWithPrettyOptions(out io.Writer, format string, sort, header, prettyMode bool, popt pretty.Options, bufSize int) (chan<- *align.Alignment, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan *align.Alignment, bufSize)
	errCh := make(chan error, 1)
	go func() {
		err := WriteAlignment(format, out, alignmentArgs{
			Sort:   sort,
			Header: header,
			Pretty: prettyMode,
			Opt:    popt,
			In:     in,
		})
		// keep senders unblocked after a failed write
		for range in {
		}
		errCh <- err
	}()
	return in, errCh
}
