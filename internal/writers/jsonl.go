// internal/writers/jsonl.go
package writers

import (
	"encoding/json"
	"io"

	"cloudalign-core/align"
	"cloudalign/internal/jsonlutil"
	"cloudalign/internal/output"
)

// StartAlignmentJSONLWriter streams each alignment as one JSON line (v1).
func StartAlignmentJSONLWriter(out io.Writer, bufSize int) (chan<- *align.Alignment, <-chan error) {
	return jsonlutil.Start[*align.Alignment](out, bufSize,
		func(enc *json.Encoder, a *align.Alignment) error {
			return enc.Encode(output.ToAPIAlignment(a))
		},
		IsBrokenPipe,
	)
}
