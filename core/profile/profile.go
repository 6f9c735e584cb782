// core/profile/profile.go
package profile

import (
	"errors"
	"fmt"
	"math"

	"cloudalign-core/alphabet"
)

// Mode selects the alignment mode a profile is configured for.
type Mode int

const (
	// Local allows entry at any match state and exit from any match or delete state.
	Local Mode = iota
	// Glocal forces alignment of the whole profile against part of the target.
	Glocal
)

func (m Mode) String() string {
	if m == Glocal {
		return "glocal"
	}
	return "local"
}

// ParseMode accepts "local" or "glocal".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "local", "":
		return Local, nil
	case "glocal":
		return Glocal, nil
	}
	return Local, fmt.Errorf("unknown profile mode %q", s)
}

// Trans indexes a node's transition scores.
type Trans int

const (
	MM Trans = iota // M(k) -> M(k+1)
	MI              // M(k) -> I(k)
	MD              // M(k) -> D(k+1)
	IM              // I(k) -> M(k+1)
	II              // I(k) -> I(k)
	DM              // D(k) -> M(k+1)
	DD              // D(k) -> D(k+1)
	NTrans
)

// Stats holds score calibration parameters in bits.
type Stats struct {
	ViterbiMu     float64
	ViterbiLambda float64
	ForwardTau    float64
	ForwardLambda float64
}

// DefaultStats is used for profiles without calibration lines.
var DefaultStats = Stats{ViterbiLambda: math.Ln2, ForwardLambda: math.Ln2}

// Params are the probability-space inputs to New.
//
// Match and Insert hold one row of alphabet.K probabilities per node (row 0
// is node 1). Trans holds M+1 rows; row 0 is the begin node, whose MM entry
// is the B -> M(1) probability.
type Params struct {
	Name        string
	Accession   string
	Description string
	Match       [][]float64
	Insert      [][]float64
	Trans       [][NTrans]float64
	Consensus   []byte // optional; derived from Match when empty
	Mode        Mode
	Stats       *Stats // optional; DefaultStats when nil
}

// Profile is an immutable profile HMM in log-odds space (nats).
// Node indices are 1-based. Safe for concurrent readers.
type Profile struct {
	Name        string
	Accession   string
	Description string
	Stats       Stats

	m         int
	mode      Mode
	consensus []byte
	match     []float64 // (m+1)*alphabet.Kp
	ins       []float64 // (m+1)*alphabet.Kp
	trans     []float64 // (m+1)*NTrans
	entry     []float64 // m+1
	exit      []float64 // m+1
}

var (
	ErrNoNodes = errors.New("profile has no nodes")
	ErrShape   = errors.New("profile parameter shape mismatch")
)

// probability rows coming from text files are rounded; allow some slack
const probSumTol = 1e-2

// New validates p and builds a Profile. It is a pure function of p.
func New(p Params) (*Profile, error) {
	m := len(p.Match)
	if m == 0 {
		return nil, ErrNoNodes
	}
	if len(p.Insert) != m || len(p.Trans) != m+1 {
		return nil, fmt.Errorf("%w: %d match rows, %d insert rows, %d transition rows", ErrShape, m, len(p.Insert), len(p.Trans))
	}
	if len(p.Consensus) != 0 && len(p.Consensus) != m {
		return nil, fmt.Errorf("%w: consensus length %d for %d nodes", ErrShape, len(p.Consensus), m)
	}

	prof := &Profile{
		Name:        p.Name,
		Accession:   p.Accession,
		Description: p.Description,
		Stats:       DefaultStats,
		m:           m,
		match:       make([]float64, (m+1)*alphabet.Kp),
		ins:         make([]float64, (m+1)*alphabet.Kp),
		trans:       make([]float64, (m+1)*int(NTrans)),
		consensus:   make([]byte, m+1),
	}
	if p.Stats != nil {
		prof.Stats = *p.Stats
	}
	for i := range prof.match[:alphabet.Kp] {
		prof.match[i] = math.Inf(-1)
		prof.ins[i] = math.Inf(-1)
	}

	for k := 1; k <= m; k++ {
		if err := checkDist(p.Match[k-1]); err != nil {
			return nil, fmt.Errorf("node %d match emissions: %w", k, err)
		}
		if err := checkDist(p.Insert[k-1]); err != nil {
			return nil, fmt.Errorf("node %d insert emissions: %w", k, err)
		}
		fillOdds(prof.match[k*alphabet.Kp:(k+1)*alphabet.Kp], p.Match[k-1])
		fillOdds(prof.ins[k*alphabet.Kp:(k+1)*alphabet.Kp], p.Insert[k-1])
		if len(p.Consensus) == m {
			prof.consensus[k] = p.Consensus[k-1]
		} else {
			prof.consensus[k] = argmaxSymbol(p.Match[k-1])
		}
	}
	for k := 0; k <= m; k++ {
		for t := Trans(0); t < NTrans; t++ {
			v := p.Trans[k][t]
			if math.IsNaN(v) || v < 0 || v > 1+probSumTol {
				return nil, fmt.Errorf("node %d transition %d: probability %g out of range", k, t, v)
			}
			prof.trans[k*int(NTrans)+int(t)] = math.Log(v)
		}
	}
	prof.configure(p.Mode)
	return prof, nil
}

// WithMode returns a profile sharing the emission and transition tables of
// p but configured for mode.
func (p *Profile) WithMode(mode Mode) *Profile {
	if mode == p.mode {
		return p
	}
	q := *p
	q.configure(mode)
	return &q
}

func (p *Profile) configure(mode Mode) {
	p.mode = mode
	p.entry = make([]float64, p.m+1)
	p.exit = make([]float64, p.m+1)
	ninf := math.Inf(-1)
	p.entry[0], p.exit[0] = ninf, ninf
	switch mode {
	case Glocal:
		for k := 1; k <= p.m; k++ {
			p.entry[k], p.exit[k] = ninf, ninf
		}
		p.entry[1] = p.Trans(0, MM)
		p.exit[p.m] = 0
	default:
		enter := math.Log(2.0 / (float64(p.m) * float64(p.m+1)))
		for k := 1; k <= p.m; k++ {
			p.entry[k] = enter
			p.exit[k] = 0
		}
	}
}

// Len is the number of nodes (M).
func (p *Profile) Len() int { return p.m }

// Mode reports the configured alignment mode.
func (p *Profile) Mode() Mode { return p.mode }

// Match is the match emission log-odds score of code c at node k.
func (p *Profile) Match(k int, c alphabet.Code) float64 { return p.match[k*alphabet.Kp+int(c)] }

// Insert is the insert emission log-odds score of code c at node k.
func (p *Profile) Insert(k int, c alphabet.Code) float64 { return p.ins[k*alphabet.Kp+int(c)] }

// Trans is the log transition score t out of node k (0 = begin node).
func (p *Profile) Trans(k int, t Trans) float64 { return p.trans[k*int(NTrans)+int(t)] }

// Entry is the B -> M(k) score.
func (p *Profile) Entry(k int) float64 { return p.entry[k] }

// Exit is the M(k) -> E and D(k) -> E score.
func (p *Profile) Exit(k int) float64 { return p.exit[k] }

// Consensus is the consensus residue letter of node k.
func (p *Profile) Consensus(k int) byte { return p.consensus[k] }

func checkDist(row []float64) error {
	if len(row) != alphabet.K {
		return fmt.Errorf("%w: %d probabilities, want %d", ErrShape, len(row), alphabet.K)
	}
	s := 0.0
	for _, v := range row {
		if math.IsNaN(v) || v < 0 {
			return fmt.Errorf("invalid probability %g", v)
		}
		s += v
	}
	if math.Abs(s-1) > probSumTol {
		return fmt.Errorf("probabilities sum to %g", s)
	}
	return nil
}

// fillOdds writes log(p/bg) for every code; degenerate codes score the
// ratio of summed member probabilities.
func fillOdds(dst []float64, probs []float64) {
	for c := alphabet.Code(0); c < alphabet.Kp; c++ {
		var num, den float64
		for _, m := range alphabet.Members(c) {
			num += probs[m]
			den += alphabet.Background[m]
		}
		dst[c] = math.Log(num / den)
	}
}

func argmaxSymbol(probs []float64) byte {
	best := 0
	for i, v := range probs {
		if v > probs[best] {
			best = i
		}
	}
	return alphabet.Symbol(alphabet.Code(best))
}
