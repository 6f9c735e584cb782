package appcore

import (
	"io"

	"cloudalign-core/align"
	"cloudalign/internal/writers"
)

// AlignmentWriterFactory starts the writer for the selected output format.
type AlignmentWriterFactory struct {
	Format string
	Sort   bool
	Header bool
	Pretty bool
}

func NewAlignmentWriterFactory(format string, sort, header, pretty bool) AlignmentWriterFactory {
	return AlignmentWriterFactory{Format: format, Sort: sort, Header: header, Pretty: pretty}
}

func (w AlignmentWriterFactory) Start(out io.Writer, bufSize int) (chan<- *align.Alignment, <-chan error) {
	return writers.StartAlignmentWriter(out, w.Format, w.Sort, w.Header, w.Pretty, bufSize)
}
