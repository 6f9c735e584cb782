package decode

import (
	"errors"
	"math"

	"cloudalign-core/band"
	"cloudalign-core/dp"
	"cloudalign-core/profile"
)

// ErrEmptyTrace means decoding produced no aligned residues.
var ErrEmptyTrace = errors.New("empty trace")

// Step is one state visit on a decoded path. Delete steps keep the target
// row they were visited on but consume no residue.
type Step struct {
	State dp.State
	I, J  int
}

// Path is an ordered list of core states from the first to the last
// aligned column.
type Path []Step

// Bounds returns the profile and target extents covered by p.
func (p Path) Bounds() (iStart, iEnd, jStart, jEnd int) {
	if len(p) == 0 {
		return 0, 0, 0, 0
	}
	iStart, iEnd = p[0].I, p[len(p)-1].I
	jStart, jEnd = -1, -1
	for _, s := range p {
		if s.State == dp.Delete {
			continue
		}
		if jStart < 0 {
			jStart = s.J
		}
		jEnd = s.J
	}
	return iStart, iEnd, jStart, jEnd
}

// grid abstracts a filled max-type DP table (Viterbi or optimal accuracy)
// for the shared traceback.
type grid struct {
	rows  *band.Rows
	cell  func(s dp.State, i, j int) float64
	flank func(f dp.Flank, j int) float64
	trans func(k int, t profile.Trans) float64
	entry func(k int) float64
	exit  func(k int) float64
	ec    float64
	loopC func(j int) float64 // score of C(j-1) -> C(j)
}

type cand struct {
	v  float64
	st dp.State
	b  bool // begin
}

// pick returns the first candidate holding the maximum; callers list them
// in tie-break order.
func pick(cs ...cand) (cand, bool) {
	best := cs[0]
	for _, c := range cs[1:] {
		if c.v > best.v {
			best = c
		}
	}
	return best, !math.IsInf(best.v, -1) && !math.IsNaN(best.v)
}

func (g grid) trace() (Path, error) {
	ts, te := g.rows.First(), g.rows.Last()

	// C: walk back until the domain end
	j := te
	for {
		if j < ts {
			return nil, ErrEmptyTrace
		}
		e := g.flank(dp.E, j) + g.ec
		c := g.flank(dp.C, j-1) + g.loopC(j)
		if math.IsInf(e, -1) && math.IsInf(c, -1) {
			return nil, ErrEmptyTrace
		}
		if e >= c {
			break
		}
		j--
	}

	// E: lowest node, match before delete
	lo, hi := g.rows.Span(j)
	cs := make([]cand, 0, 2*(hi-lo+1))
	for i := lo; i <= hi; i++ {
		cs = append(cs, cand{v: g.cell(dp.Match, i, j) + g.exit(i), st: dp.Match})
		cs = append(cs, cand{v: g.cell(dp.Delete, i, j) + g.exit(i), st: dp.Delete})
	}
	bestAt := -1
	for x, c := range cs {
		if bestAt < 0 || c.v > cs[bestAt].v {
			bestAt = x
		}
	}
	if bestAt < 0 || math.IsInf(cs[bestAt].v, -1) {
		return nil, ErrEmptyTrace
	}
	st, i := cs[bestAt].st, lo+bestAt/2

	var path Path
	for {
		path = append(path, Step{State: st, I: i, J: j})
		var (
			next cand
			ok   bool
		)
		switch st {
		case dp.Match:
			next, ok = pick(
				cand{v: g.cell(dp.Match, i-1, j-1) + g.trans(i-1, profile.MM), st: dp.Match},
				cand{v: g.cell(dp.Delete, i-1, j-1) + g.trans(i-1, profile.DM), st: dp.Delete},
				cand{v: g.cell(dp.Insert, i-1, j-1) + g.trans(i-1, profile.IM), st: dp.Insert},
				cand{v: g.flank(dp.B, j-1) + g.entry(i), b: true},
			)
			i, j = i-1, j-1
		case dp.Insert:
			next, ok = pick(
				cand{v: g.cell(dp.Match, i, j-1) + g.trans(i, profile.MI), st: dp.Match},
				cand{v: g.cell(dp.Insert, i, j-1) + g.trans(i, profile.II), st: dp.Insert},
			)
			j--
		case dp.Delete:
			next, ok = pick(
				cand{v: g.cell(dp.Match, i-1, j) + g.trans(i-1, profile.MD), st: dp.Match},
				cand{v: g.cell(dp.Delete, i-1, j) + g.trans(i-1, profile.DD), st: dp.Delete},
			)
			i--
		}
		if !ok {
			return nil, ErrEmptyTrace
		}
		if next.b {
			break
		}
		st = next.st
	}
	for a, b := 0, len(path)-1; a < b; a, b = a+1, b-1 {
		path[a], path[b] = path[b], path[a]
	}
	return path, nil
}

// ViterbiTrace recovers the best path from a filled Viterbi matrix.
// Ties prefer Match, then Delete, then Insert, then Begin.
func ViterbiTrace(vit *dp.Matrix, pr dp.Problem) (Path, error) {
	p, sp := pr.Profile, pr.Special
	return grid{
		rows:  vit.Rows,
		cell:  vit.Cell,
		flank: vit.Flank,
		trans: p.Trans,
		entry: p.Entry,
		exit:  p.Exit,
		ec:    sp.EC,
		loopC: func(int) float64 { return sp.CC },
	}.trace()
}

// Trim drops leading and trailing steps that are not Match states or whose
// posterior is below threshold.
func Trim(path Path, post *Posterior, threshold float64) (Path, error) {
	keep := func(s Step) bool {
		return s.State == dp.Match && post.Cell(dp.Match, s.I, s.J) >= threshold
	}
	a, b := 0, len(path)-1
	for a <= b && !keep(path[a]) {
		a++
	}
	for b >= a && !keep(path[b]) {
		b--
	}
	if a > b {
		return nil, ErrEmptyTrace
	}
	return path[a : b+1], nil
}
