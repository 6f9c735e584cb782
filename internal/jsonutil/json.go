// internal/jsonutil/json.go
package jsonutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// EncodePretty writes v as indented JSON to w.
func EncodePretty(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// DecodeStrict decodes data into v, rejecting unknown fields. Syntax and
// type errors are reported as "src:line".
func DecodeStrict(data []byte, src string, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	err := dec.Decode(v)
	if err == nil {
		return nil
	}
	var se *json.SyntaxError
	var te *json.UnmarshalTypeError
	switch {
	case errors.As(err, &se):
		return fmt.Errorf("%s:%d %w", src, LineAt(data, se.Offset), err)
	case errors.As(err, &te):
		return fmt.Errorf("%s:%d %w", src, LineAt(data, te.Offset), err)
	}
	return fmt.Errorf("%s: %w", src, err)
}

// LineAt returns the 1-based line holding byte offset off.
func LineAt(data []byte, off int64) int {
	if off > int64(len(data)) {
		off = int64(len(data))
	}
	if off < 0 {
		off = 0
	}
	return bytes.Count(data[:off], []byte{'\n'}) + 1
}
