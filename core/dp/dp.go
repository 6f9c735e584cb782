// core/dp/dp.go
package dp

import (
	"errors"
	"fmt"
	"math"

	"cloudalign-core/band"
	"cloudalign-core/profile"
	"cloudalign-core/seq"
)

var (
	// ErrBudgetExceeded means the region holds more cells than allowed.
	ErrBudgetExceeded = errors.New("region exceeds cell budget")
	// ErrNoPath means no path through the region reaches the end state.
	ErrNoPath = errors.New("no path through region")
)

// State is a core profile state.
type State uint8

const (
	Match State = iota
	Insert
	Delete
)

func (s State) String() string {
	switch s {
	case Match:
		return "M"
	case Insert:
		return "I"
	case Delete:
		return "D"
	}
	return "?"
}

// Flank is a special (non-profile) state. N and C emit unaligned residues,
// B enters the profile and E leaves it.
type Flank uint8

const (
	N Flank = iota
	B
	E
	C
)

// Problem is one region to evaluate.
type Problem struct {
	Profile  *profile.Profile
	Target   *seq.Sequence
	Rows     *band.Rows
	Special  profile.Special
	MaxCells int // 0 = unlimited
}

func (pr Problem) validate() error {
	if pr.Profile == nil || pr.Target == nil || pr.Rows == nil {
		return errors.New("dp: nil profile, target or rows")
	}
	r := pr.Rows.Region
	if r.Empty() || r.QueryEnd > pr.Profile.Len() || r.TargetEnd > pr.Target.Len() || r.QueryStart < 1 || r.TargetStart < 1 {
		return fmt.Errorf("dp: region %+v outside %dx%d matrix", r, pr.Profile.Len(), pr.Target.Len())
	}
	return nil
}

// admit rejects a region larger than the cell budget before any buffer is
// sized for it.
func (pr Problem) admit() error {
	if n := pr.Rows.Total(); pr.MaxCells > 0 && n > pr.MaxCells {
		return fmt.Errorf("%w: %d cells, budget %d", ErrBudgetExceeded, n, pr.MaxCells)
	}
	return nil
}

// Matrix holds one pass over a region. Core cells are addressed through
// Rows; flank values are stored for target rows First()-1 .. Last().
type Matrix struct {
	Rows  *band.Rows
	M     []float64
	I     []float64
	D     []float64
	flank [4][]float64
	// Total is the log score of the whole target: T for Forward and
	// Viterbi, N(0) for Backward.
	Total float64
}

func (mx *Matrix) reset(rows *band.Rows) {
	n := rows.Total()
	mx.Rows = rows
	mx.M = grow(mx.M, n)
	mx.I = grow(mx.I, n)
	mx.D = grow(mx.D, n)
	w := rows.Last() - rows.First() + 2
	for f := range mx.flank {
		mx.flank[f] = grow(mx.flank[f], w)
	}
	mx.Total = math.Inf(-1)
}

func grow(s []float64, n int) []float64 {
	if cap(s) < n {
		s = make([]float64, n)
	}
	s = s[:n]
	ninf := math.Inf(-1)
	for i := range s {
		s[i] = ninf
	}
	return s
}

// Cell returns the value of state s at (i, j), or -Inf outside the region.
func (mx *Matrix) Cell(s State, i, j int) float64 {
	k := mx.Rows.Index(i, j)
	if k < 0 {
		return math.Inf(-1)
	}
	switch s {
	case Match:
		return mx.M[k]
	case Insert:
		return mx.I[k]
	default:
		return mx.D[k]
	}
}

// Flank returns flank state f at target row j, for First()-1 <= j <= Last().
func (mx *Matrix) Flank(f Flank, j int) float64 {
	x := j - mx.Rows.First() + 1
	if x < 0 || x >= len(mx.flank[f]) {
		return math.Inf(-1)
	}
	return mx.flank[f][x]
}

// Workspace owns reusable matrices for one worker. It is not safe for
// concurrent use; give each goroutine its own.
type Workspace struct {
	fwd, bwd, vit Matrix
	cells         int64
	visit         func(i, j int) // test hook
}

// NewWorkspace returns an empty workspace; buffers grow on demand.
func NewWorkspace() *Workspace { return &Workspace{} }

// Cells is the number of DP cells evaluated since the workspace was created.
func (ws *Workspace) Cells() int64 { return ws.cells }

func (ws *Workspace) charge(pr Problem, used *int, width int) error {
	*used += width
	ws.cells += int64(width)
	if pr.MaxCells > 0 && *used > pr.MaxCells {
		return fmt.Errorf("%w: more than %d cells", ErrBudgetExceeded, pr.MaxCells)
	}
	return nil
}

func finish(mx *Matrix) (*Matrix, error) {
	if math.IsNaN(mx.Total) || math.IsInf(mx.Total, -1) {
		return mx, ErrNoPath
	}
	return mx, nil
}
