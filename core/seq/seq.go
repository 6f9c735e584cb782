// core/seq/seq.go
package seq

import (
	"bytes"
	"errors"

	"cloudalign-core/alphabet"
	"cloudalign-core/fasta"
)

// ErrEmpty is returned when a sequence has no residues.
var ErrEmpty = errors.New("empty sequence")

// Sequence is an immutable digitized protein target.
// Positions are 1-based: At(1) is the first residue.
type Sequence struct {
	Name     string
	Residues []byte
	digital  []alphabet.Code
}

// New builds a Sequence, upper-casing and digitizing residues.
func New(name string, residues []byte) (*Sequence, error) {
	if len(residues) == 0 {
		return nil, ErrEmpty
	}
	r := bytes.ToUpper(residues)
	return &Sequence{Name: name, Residues: r, digital: alphabet.Digitize(r)}, nil
}

// FromRecord converts a FASTA record.
func FromRecord(rec fasta.Record) (*Sequence, error) { return New(rec.ID, rec.Seq) }

// Len is the number of residues (L).
func (s *Sequence) Len() int { return len(s.digital) }

// At returns the digital code at 1-based position j.
func (s *Sequence) At(j int) alphabet.Code { return s.digital[j-1] }

// Residue returns the residue letter at 1-based position j.
func (s *Sequence) Residue(j int) byte { return s.Residues[j-1] }
