// core/fasta/reader.go
package fasta

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
)

// Record is one parsed FASTA entry.
type Record struct {
	ID  string
	Seq []byte
}

// allow very long single-line sequences (64 MiB)
const maxLine = 64 * 1024 * 1024

// Scan parses FASTA from r and calls emit once per record. src names the
// input in error messages. Cancellation is checked between lines.
// Returning an error from emit stops the scan with that error.
func Scan(ctx context.Context, r io.Reader, src string, emit func(Record) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)

	var (
		id     string
		have   bool
		seq    = make([]byte, 0, 4096)
		lineNo int
	)
	flush := func() error {
		if !have {
			return nil
		}
		return emit(Record{ID: id, Seq: append([]byte(nil), seq...)})
	}

	for sc.Scan() {
		lineNo++
		if err := ctx.Err(); err != nil {
			return err
		}
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 || line[0] == ';' {
			continue
		}
		if line[0] == '>' {
			if err := flush(); err != nil {
				return err
			}
			id, have, seq = parseHeaderID(line[1:]), true, seq[:0]
			if id == "" {
				return fmt.Errorf("%s:%d: empty FASTA header", src, lineNo)
			}
			continue
		}
		if !have {
			return fmt.Errorf("%s:%d: sequence data before first header", src, lineNo)
		}
		seq = append(seq, line...)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("%s: fasta scan: %w", src, err)
	}
	return flush()
}

// ReadPath opens path (see Open) and scans it.
func ReadPath(ctx context.Context, path string, emit func(Record) error) error {
	rc, err := Open(path)
	if err != nil {
		return err
	}
	defer rc.Close()
	return Scan(ctx, rc, path, emit)
}

// Stream emits records of paths on a channel. The error channel receives
// at most one value and is closed after the record channel.
func Stream(ctx context.Context, paths []string) (<-chan Record, <-chan error) {
	out := make(chan Record, 8)
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		defer close(out)
		for _, p := range paths {
			err := ReadPath(ctx, p, func(r Record) error {
				select {
				case out <- r:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			})
			if err != nil {
				errc <- err
				return
			}
		}
	}()
	return out, errc
}

func parseHeaderID(hdr []byte) string {
	hdr = bytes.TrimSpace(hdr)
	if i := bytes.IndexAny(hdr, " \t"); i >= 0 {
		return string(hdr[:i])
	}
	return string(hdr)
}
