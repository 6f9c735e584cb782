package dp

import (
	"context"
	"math"

	"cloudalign-core/profile"
)

// Backward computes, for every cell, the log probability of completing the
// target from that state. Values exclude the cell's own emission, so
// exp(F + B - T) is the posterior of the cell. Total is N(0), which equals
// the Forward total.
func (ws *Workspace) Backward(ctx context.Context, pr Problem) (*Matrix, error) {
	if err := pr.validate(); err != nil {
		return nil, err
	}
	if err := pr.admit(); err != nil {
		return nil, err
	}
	var (
		mx   = &ws.bwd
		p    = pr.Profile
		s    = pr.Target
		rows = pr.Rows
		sp   = pr.Special
		m    = p.Len()
		l    = s.Len()
		ts   = rows.First()
		te   = rows.Last()
		ninf = math.Inf(-1)
		used int
		add  = profile.LogSum
	)
	mx.reset(rows)
	fN, fB, fE, fC := mx.flank[N], mx.flank[B], mx.flank[E], mx.flank[C]

	// C only loops to the end: C(j) = (L-j)CC + CT
	cAt := func(j int) float64 { return float64(l-j)*sp.CC + sp.CT }
	fC[0] = cAt(ts - 1)
	fE[0] = sp.EC + fC[0]
	// N(te) cannot reach the profile any more
	nNext := ninf

	for j := te; j >= ts; j-- {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lo, hi := rows.Span(j)
		if err := ws.charge(pr, &used, hi-lo+1); err != nil {
			return nil, err
		}
		x := j - ts + 1
		fC[x] = cAt(j)
		eb := sp.EC + fC[x]
		fE[x] = eb

		next := j < l
		var code = s.At(j)
		if next {
			code = s.At(j + 1)
		}
		for i := hi; i >= lo; i-- {
			if ws.visit != nil {
				ws.visit(i, j)
			}
			c := rows.Index(i, j)
			mv := p.Exit(i) + eb
			dv := p.Exit(i) + eb
			iv := ninf

			if k := rows.Index(i+1, j+1); next && k >= 0 {
				em := mx.M[k] + p.Match(i+1, code)
				mv = add(mv, p.Trans(i, profile.MM)+em)
				iv = p.Trans(i, profile.IM) + em
				dv = add(dv, p.Trans(i, profile.DM)+em)
			}
			if k := rows.Index(i, j+1); next && i < m && k >= 0 {
				ei := mx.I[k] + p.Insert(i, code)
				mv = add(mv, p.Trans(i, profile.MI)+ei)
				iv = add(iv, p.Trans(i, profile.II)+ei)
			}
			if i < hi {
				k := c + 1
				mv = add(mv, p.Trans(i, profile.MD)+mx.D[k])
				dv = add(dv, p.Trans(i, profile.DD)+mx.D[k])
			}
			if i == m {
				iv = ninf
			}
			mx.M[c], mx.I[c], mx.D[c] = mv, iv, dv
		}

		// B(j-1) enters row j
		bv := ninf
		here := s.At(j)
		for i := lo; i <= hi; i++ {
			bv = add(bv, p.Entry(i)+p.Match(i, here)+mx.M[rows.Index(i, j)])
		}
		fB[x-1] = bv
		fN[x] = nNext
		nNext = add(sp.NN+nNext, sp.NB+bv)
	}
	fN[0] = nNext
	// N loops over the residues before the region
	mx.Total = fN[0] + float64(ts-1)*sp.NN
	return finish(mx)
}
