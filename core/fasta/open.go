// core/fasta/open.go
package fasta

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
)

// source couples a decoded stream with everything that must be closed
// once the records are consumed.
type source struct {
	io.Reader
	close []func() error
}

func (s *source) Close() error {
	var err error
	for k := len(s.close) - 1; k >= 0; k-- {
		if cerr := s.close[k](); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Open returns a reader for a target file; "-" is stdin. Gzip input is
// recognised by its magic bytes, so compressed stdin works too.
func Open(path string) (io.ReadCloser, error) {
	src := &source{}
	var raw io.Reader
	if path == "-" {
		raw = os.Stdin
	} else {
		fh, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		raw = fh
		src.close = append(src.close, fh.Close)
	}

	br := bufio.NewReaderSize(raw, 64<<10)
	if magic, _ := br.Peek(2); len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		gr, err := gzip.NewReader(br)
		if err != nil {
			_ = src.Close()
			return nil, err
		}
		src.Reader = gr
		src.close = append(src.close, gr.Close)
		return src, nil
	}
	src.Reader = br
	return src, nil
}
