// core/alphabet/alphabet.go
package alphabet

// Code is a digitized protein residue. 0..19 are the canonical residues in
// Symbols order; 20..25 are degenerate codes.
type Code uint8

const (
	// K is the number of canonical residues.
	K = 20
	// Kp is the total number of codes (canonical + degenerate).
	Kp = 26
)

// Symbols lists all residue letters indexed by Code.
const Symbols = "ACDEFGHIKLMNPQRSTVWYBJZOUX"

// Degenerate codes.
const (
	B Code = 20 + iota // D or N
	J                  // I or L
	Z                  // E or Q
	O                  // pyrrolysine, scored as K
	U                  // selenocysteine, scored as C
	X                  // any residue
)

// Background is the amino acid composition used as the null model
// (HMMER's default protein background).
var Background = [K]float64{
	0.0787945, // A
	0.0151600, // C
	0.0535222, // D
	0.0668298, // E
	0.0397062, // F
	0.0695071, // G
	0.0229198, // H
	0.0590092, // I
	0.0594422, // K
	0.0963728, // L
	0.0237718, // M
	0.0414386, // N
	0.0482904, // P
	0.0395639, // Q
	0.0540978, // R
	0.0683364, // S
	0.0540687, // T
	0.0673417, // V
	0.0114135, // W
	0.0304133, // Y
}

var (
	toCode  [256]Code
	members [Kp][]Code
)

func init() {
	for i := range toCode {
		toCode[i] = X
	}
	for i := 0; i < len(Symbols); i++ {
		c := Symbols[i]
		toCode[c] = Code(i)
		toCode[c+'a'-'A'] = Code(i)
	}
	// HMMER treats '*' and '-' in sequences as unknown as well; leave them at X.
	for i := 0; i < K; i++ {
		members[i] = []Code{Code(i)}
	}
	members[B] = []Code{Index('D'), Index('N')}
	members[J] = []Code{Index('I'), Index('L')}
	members[Z] = []Code{Index('E'), Index('Q')}
	members[O] = []Code{Index('K')}
	members[U] = []Code{Index('C')}
	all := make([]Code, K)
	for i := range all {
		all[i] = Code(i)
	}
	members[X] = all
}

// Index maps a residue letter (either case) to its Code. Unknown letters map to X.
func Index(b byte) Code { return toCode[b] }

// Symbol returns the upper-case letter for c.
func Symbol(c Code) byte {
	if int(c) >= Kp {
		return 'X'
	}
	return Symbols[c]
}

// Members returns the canonical residues a code stands for. The returned
// slice is shared and must not be modified.
func Members(c Code) []Code {
	if int(c) >= Kp {
		return members[X]
	}
	return members[c]
}

// Digitize converts residue letters to codes. Whitespace is not expected;
// callers strip it while reading FASTA.
func Digitize(res []byte) []Code {
	out := make([]Code, len(res))
	for i, b := range res {
		out[i] = toCode[b]
	}
	return out
}
