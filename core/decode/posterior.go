// core/decode/posterior.go
package decode

import (
	"math"

	"cloudalign-core/band"
	"cloudalign-core/dp"
)

// Posterior holds per-cell state posteriors for one region plus the flank
// posteriors of every region row. Rows before the region are emitted by N
// and rows after it by C with probability 1.
type Posterior struct {
	Rows    *band.Rows
	M, I, D []float64
	n, c    []float64 // indexed by j - First()
	L       int
}

// Cell is the posterior of state s at (i, j); 0 outside the region.
func (p *Posterior) Cell(s dp.State, i, j int) float64 {
	k := p.Rows.Index(i, j)
	if k < 0 {
		return 0
	}
	switch s {
	case dp.Match:
		return p.M[k]
	case dp.Insert:
		return p.I[k]
	default:
		return p.D[k]
	}
}

// FlankN is the probability that residue j is emitted by the N flank.
func (p *Posterior) FlankN(j int) float64 {
	switch {
	case j < p.Rows.First():
		return 1
	case j > p.Rows.Last():
		return 0
	}
	return p.n[j-p.Rows.First()]
}

// FlankC is the probability that residue j is emitted by the C flank.
func (p *Posterior) FlankC(j int) float64 {
	switch {
	case j < p.Rows.First():
		return 0
	case j > p.Rows.Last():
		return 1
	}
	return p.c[j-p.Rows.First()]
}

// RowSum is the total emission posterior of residue j; 1 up to rounding.
func (p *Posterior) RowSum(j int) float64 {
	s := p.FlankN(j) + p.FlankC(j)
	lo, hi := p.Rows.Span(j)
	for i := lo; i <= hi; i++ {
		k := p.Rows.Index(i, j)
		s += p.M[k] + p.I[k]
	}
	return s
}

// ComputePosterior combines Forward and Backward matrices of the same
// region into dst, reusing its buffers. dst may be nil.
func ComputePosterior(fwd, bwd *dp.Matrix, l int, dst *Posterior) *Posterior {
	if dst == nil {
		dst = &Posterior{}
	}
	rows := fwd.Rows
	n := rows.Total()
	w := rows.Last() - rows.First() + 1
	dst.Rows = rows
	dst.L = l
	dst.M = resize(dst.M, n)
	dst.I = resize(dst.I, n)
	dst.D = resize(dst.D, n)
	dst.n = resize(dst.n, w)
	dst.c = resize(dst.c, w)

	t := fwd.Total
	for k := 0; k < n; k++ {
		dst.M[k] = prob(fwd.M[k] + bwd.M[k] - t)
		dst.I[k] = prob(fwd.I[k] + bwd.I[k] - t)
		dst.D[k] = prob(fwd.D[k] + bwd.D[k] - t)
	}
	for j := rows.First(); j <= rows.Last(); j++ {
		x := j - rows.First()
		dst.n[x] = prob(fwd.Flank(dp.N, j) + bwd.Flank(dp.N, j) - t)
		// C can only leave at row L, so occupying C at j-1 means emitting j
		dst.c[x] = prob(fwd.Flank(dp.C, j-1) + bwd.Flank(dp.C, j-1) - t)
	}
	return dst
}

func prob(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, -1) {
		return 0
	}
	p := math.Exp(v)
	if p > 1 {
		p = 1
	}
	return p
}

func resize(s []float64, n int) []float64 {
	if cap(s) < n {
		return make([]float64, n)
	}
	s = s[:n]
	for i := range s {
		s[i] = 0
	}
	return s
}
