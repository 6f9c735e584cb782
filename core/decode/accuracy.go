package decode

import (
	"math"

	"cloudalign-core/dp"
	"cloudalign-core/profile"
)

// Workspace keeps decoding buffers for one worker.
type Workspace struct {
	Post Posterior
	oa   oaMatrix
}

// NewWorkspace returns an empty decoding workspace.
func NewWorkspace() *Workspace { return &Workspace{} }

type oaMatrix struct {
	m, i, d    []float64
	n, b, e, c []float64 // indexed by j - First() + 1
}

func (o *oaMatrix) reset(cells, width int) {
	o.m, o.i, o.d = fill(o.m, cells), fill(o.i, cells), fill(o.d, cells)
	o.n, o.b, o.e, o.c = fill(o.n, width), fill(o.b, width), fill(o.e, width), fill(o.c, width)
}

func fill(s []float64, n int) []float64 {
	if cap(s) < n {
		s = make([]float64, n)
	}
	s = s[:n]
	ninf := math.Inf(-1)
	for x := range s {
		s[x] = ninf
	}
	return s
}

// allowed maps a transition score to 0 when the move is possible.
func allowed(v float64) float64 {
	if math.IsInf(v, -1) {
		return v
	}
	return 0
}

// OptimalAccuracy finds the path through the region maximizing the summed
// posterior probability of its emitting states, over the same topology as
// the profile. post must have been computed for pr.Rows.
func (w *Workspace) OptimalAccuracy(pr dp.Problem, post *Posterior) (Path, error) {
	var (
		p    = pr.Profile
		sp   = pr.Special
		rows = pr.Rows
		o    = &w.oa
		m    = p.Len()
		ts   = rows.First()
		te   = rows.Last()
	)
	o.reset(rows.Total(), te-ts+2)
	o.n[0] = float64(ts - 1)
	o.b[0] = o.n[0] + allowed(sp.NB)

	for j := ts; j <= te; j++ {
		x := j - ts + 1
		lo, hi := rows.Span(j)
		e := math.Inf(-1)
		for i := lo; i <= hi; i++ {
			c := rows.Index(i, j)
			mv := o.b[x-1] + allowed(p.Entry(i))
			if k := rows.Index(i-1, j-1); k >= 0 {
				mv = math.Max(mv, o.m[k]+allowed(p.Trans(i-1, profile.MM)))
				mv = math.Max(mv, o.i[k]+allowed(p.Trans(i-1, profile.IM)))
				mv = math.Max(mv, o.d[k]+allowed(p.Trans(i-1, profile.DM)))
			}
			o.m[c] = mv + post.M[c]
			if k := rows.Index(i, j-1); i < m && k >= 0 {
				o.i[c] = math.Max(o.m[k]+allowed(p.Trans(i, profile.MI)), o.i[k]+allowed(p.Trans(i, profile.II))) + post.I[c]
			}
			if i > lo {
				o.d[c] = math.Max(o.m[c-1]+allowed(p.Trans(i-1, profile.MD)), o.d[c-1]+allowed(p.Trans(i-1, profile.DD)))
			}
			e = math.Max(e, o.m[c]+allowed(p.Exit(i)))
			e = math.Max(e, o.d[c]+allowed(p.Exit(i)))
		}
		o.e[x] = e
		o.n[x] = o.n[x-1] + post.FlankN(j)
		o.b[x] = o.n[x] + allowed(sp.NB)
		o.c[x] = math.Max(o.c[x-1]+post.FlankC(j), e+allowed(sp.EC))
	}

	cell := func(s dp.State, i, j int) float64 {
		k := rows.Index(i, j)
		if k < 0 {
			return math.Inf(-1)
		}
		switch s {
		case dp.Match:
			return o.m[k]
		case dp.Insert:
			return o.i[k]
		}
		return o.d[k]
	}
	flank := func(f dp.Flank, j int) float64 {
		x := j - ts + 1
		if x < 0 || x > te-ts+1 {
			return math.Inf(-1)
		}
		switch f {
		case dp.N:
			return o.n[x]
		case dp.B:
			return o.b[x]
		case dp.E:
			return o.e[x]
		}
		return o.c[x]
	}
	return grid{
		rows:  rows,
		cell:  cell,
		flank: flank,
		trans: func(k int, t profile.Trans) float64 { return allowed(p.Trans(k, t)) },
		entry: func(k int) float64 { return allowed(p.Entry(k)) },
		exit:  func(k int) float64 { return allowed(p.Exit(k)) },
		ec:    allowed(sp.EC),
		loopC: post.FlankC,
	}.trace()
}
