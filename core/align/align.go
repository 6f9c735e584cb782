// core/align/align.go
package align

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"cloudalign-core/band"
	"cloudalign-core/decode"
	"cloudalign-core/dp"
	"cloudalign-core/profile"
	"cloudalign-core/seq"
)

// ErrBelowThreshold marks a candidate that is not significant enough to report.
var ErrBelowThreshold = errors.New("alignment below reporting threshold")

// Method selects which pass supplies the raw score.
type Method int

const (
	Viterbi Method = iota
	Posterior
)

func (m Method) String() string {
	if m == Posterior {
		return "posterior"
	}
	return "viterbi"
}

// ParseMethod accepts "viterbi" or "posterior".
func ParseMethod(s string) (Method, error) {
	switch s {
	case "viterbi":
		return Viterbi, nil
	case "posterior", "mea":
		return Posterior, nil
	}
	return Viterbi, fmt.Errorf("unknown decoding mode %q", s)
}

// Pair is one aligned column; -1 marks a gap.
type Pair struct {
	Profile int
	Target  int
}

// Alignment is a reportable domain alignment. Scores are in nats unless
// named in bits.
type Alignment struct {
	Profile   string
	Accession string
	Target    string

	ProfileStart, ProfileEnd int
	TargetStart, TargetEnd   int
	ProfileLen, TargetLen    int

	Pairs       []Pair
	States      string
	ProfileLine string
	Midline     string
	TargetLine  string
	PostLine    string

	Method  Method
	Forward float64
	Viterbi float64
	Raw     float64
	Null    float64
	Bias    float64
	Bits    float64
	PValue  float64
	EValue  float64

	Region band.Region
	Cells  int
}

// Cigar run-length encodes States, e.g. "5M1D4M".
func (a *Alignment) Cigar() string {
	var b strings.Builder
	for x := 0; x < len(a.States); {
		y := x
		for y < len(a.States) && a.States[y] == a.States[x] {
			y++
		}
		b.WriteString(strconv.Itoa(y - x))
		b.WriteByte(a.States[x])
		x = y
	}
	return b.String()
}

// Identity is the fraction of match columns with identical residues.
func (a *Alignment) Identity() float64 {
	n, id := 0, 0
	for x := 0; x < len(a.States); x++ {
		if a.States[x] != 'M' {
			continue
		}
		n++
		if a.Midline[x] != ' ' && a.Midline[x] != '+' {
			id++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(id) / float64(n)
}

// Scores carries the pass totals and corrections for one candidate.
type Scores struct {
	Method  Method
	Forward float64
	Viterbi float64
	Null    float64 // null1 of the target
	Bias    float64 // null2 correction, >= 0
}

// Policy decides what is reportable.
type Policy struct {
	MinScore  float64 // bits; candidates at or below are rejected
	MaxEvalue float64 // 0 disables the E-value filter
	DBSize    float64 // number of targets searched; < 1 counts as 1
}

// Assemble resolves a decoded path into an Alignment and scores it.
func Assemble(p *profile.Profile, s *seq.Sequence, path decode.Path, post *decode.Posterior, sc Scores, pol Policy) (*Alignment, error) {
	if len(path) == 0 {
		return nil, decode.ErrEmptyTrace
	}
	iStart, iEnd, jStart, jEnd := path.Bounds()
	a := &Alignment{
		Profile:      p.Name,
		Accession:    p.Accession,
		Target:       s.Name,
		ProfileStart: iStart, ProfileEnd: iEnd,
		TargetStart: jStart, TargetEnd: jEnd,
		ProfileLen: p.Len(), TargetLen: s.Len(),
		Pairs:   make([]Pair, 0, len(path)),
		Method:  sc.Method,
		Forward: sc.Forward,
		Viterbi: sc.Viterbi,
		Null:    sc.Null,
		Bias:    sc.Bias,
	}
	if post != nil {
		a.Region = post.Rows.Region
		a.Cells = post.Rows.Total()
	}

	var st, pl, ml, tl, pp strings.Builder
	for _, step := range path {
		st.WriteString(step.State.String())
		switch step.State {
		case dp.Match:
			cons := p.Consensus(step.I)
			res := s.Residue(step.J)
			a.Pairs = append(a.Pairs, Pair{Profile: step.I, Target: step.J})
			pl.WriteByte(cons)
			tl.WriteByte(res)
			switch {
			case upper(cons) == res:
				ml.WriteByte(res)
			case p.Match(step.I, s.At(step.J)) > 0:
				ml.WriteByte('+')
			default:
				ml.WriteByte(' ')
			}
			pp.WriteByte(postChar(post, step))
		case dp.Insert:
			a.Pairs = append(a.Pairs, Pair{Profile: -1, Target: step.J})
			pl.WriteByte('.')
			tl.WriteByte(lower(s.Residue(step.J)))
			ml.WriteByte(' ')
			pp.WriteByte(postChar(post, step))
		case dp.Delete:
			a.Pairs = append(a.Pairs, Pair{Profile: step.I, Target: -1})
			pl.WriteByte(p.Consensus(step.I))
			tl.WriteByte('-')
			ml.WriteByte(' ')
			pp.WriteByte('.')
		}
	}
	a.States, a.ProfileLine, a.Midline, a.TargetLine, a.PostLine = st.String(), pl.String(), ml.String(), tl.String(), pp.String()

	if sc.Method == Posterior {
		a.Raw = sc.Forward
	} else {
		a.Raw = sc.Viterbi
	}
	a.Bits = BitScore(a.Raw, sc.Null, sc.Bias)
	a.PValue = PValue(sc.Method, a.Bits, p.Stats)
	db := pol.DBSize
	if db < 1 {
		db = 1
	}
	a.EValue = a.PValue * db

	if math.IsNaN(a.Bits) || a.Bits <= pol.MinScore {
		return a, fmt.Errorf("%w: %.2f bits", ErrBelowThreshold, a.Bits)
	}
	if pol.MaxEvalue > 0 && a.EValue > pol.MaxEvalue {
		return a, fmt.Errorf("%w: E=%.3g", ErrBelowThreshold, a.EValue)
	}
	return a, nil
}

// BitScore converts a raw log-odds score in nats to bits after the null1
// and null2 corrections.
func BitScore(raw, null, bias float64) float64 { return (raw - null - bias) / math.Ln2 }

// PValue is the probability of a score at least bits under the null model:
// a Gumbel tail for Viterbi scores and an exponential tail for Forward scores.
func PValue(m Method, bits float64, st profile.Stats) float64 {
	if m == Posterior {
		lambda := st.ForwardLambda
		if lambda <= 0 {
			lambda = math.Ln2
		}
		if bits <= st.ForwardTau {
			return 1
		}
		return math.Exp(-lambda * (bits - st.ForwardTau))
	}
	lambda := st.ViterbiLambda
	if lambda <= 0 {
		lambda = math.Ln2
	}
	return -math.Expm1(-math.Exp(-lambda * (bits - st.ViterbiMu)))
}

func postChar(post *decode.Posterior, s decode.Step) byte {
	if post == nil {
		return '.'
	}
	v := post.Cell(s.State, s.I, s.J)
	if v >= 0.95 {
		return '*'
	}
	d := int(v*10 + 0.5)
	if d > 9 {
		d = 9
	}
	return byte('0' + d)
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b - 'A' + 'a'
	}
	return b
}

// Sort orders alignments by descending bit score with fully determined ties.
func Sort(list []*Alignment) {
	sort.SliceStable(list, func(x, y int) bool {
		a, b := list[x], list[y]
		if a.Bits != b.Bits {
			return a.Bits > b.Bits
		}
		if a.EValue != b.EValue {
			return a.EValue < b.EValue
		}
		if a.Target != b.Target {
			return a.Target < b.Target
		}
		if a.Profile != b.Profile {
			return a.Profile < b.Profile
		}
		if a.ProfileStart != b.ProfileStart {
			return a.ProfileStart < b.ProfileStart
		}
		if a.TargetStart != b.TargetStart {
			return a.TargetStart < b.TargetStart
		}
		if a.ProfileEnd != b.ProfileEnd {
			return a.ProfileEnd < b.ProfileEnd
		}
		return a.TargetEnd < b.TargetEnd
	})
}
