// internal/jsonlutil/jsonlutil.go
package jsonlutil

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// Start runs a JSONL encoder goroutine for values of type T and returns its
// input channel and a channel that yields the final error once input is
// closed.
//
// encode converts one value to its wire type and writes it. isBroken, when
// non-nil, recognises a closed downstream pipe, which is then not reported.
// After the first failure the rest of the input is drained so senders never
// block.
func Start[T any](out io.Writer, bufSize int, encode func(*json.Encoder, T) error, isBroken func(error) bool) (chan<- T, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan T, bufSize)
	done := make(chan error, 1)

	go func() {
		bw := bufio.NewWriterSize(out, 64<<10)
		enc := json.NewEncoder(bw)

		var (
			err error
			n   int
		)
		for v := range in {
			if err != nil {
				continue
			}
			n++
			if e := encode(enc, v); e != nil {
				err = fmt.Errorf("jsonl record %d: %w", n, e)
			}
		}
		if err == nil {
			err = bw.Flush()
		}
		if err != nil && isBroken != nil && isBroken(err) {
			err = nil
		}
		done <- err
	}()

	return in, done
}
