package dp

import (
	"context"
	"math"

	"cloudalign-core/profile"
)

// Forward sums over all paths through the region. Values include the
// emission of the cell's own state.
func (ws *Workspace) Forward(ctx context.Context, pr Problem) (*Matrix, error) {
	return ws.fill(ctx, pr, &ws.fwd, profile.LogSum)
}

// Viterbi is Forward with max in place of log-sum-exp.
func (ws *Workspace) Viterbi(ctx context.Context, pr Problem) (*Matrix, error) {
	return ws.fill(ctx, pr, &ws.vit, math.Max)
}

func (ws *Workspace) fill(ctx context.Context, pr Problem, mx *Matrix, add func(a, b float64) float64) (*Matrix, error) {
	if err := pr.validate(); err != nil {
		return nil, err
	}
	if err := pr.admit(); err != nil {
		return nil, err
	}
	var (
		p    = pr.Profile
		s    = pr.Target
		rows = pr.Rows
		sp   = pr.Special
		m    = p.Len()
		ts   = rows.First()
		te   = rows.Last()
		ninf = math.Inf(-1)
		used int
	)
	mx.reset(rows)
	fN, fB, fE, fC := mx.flank[N], mx.flank[B], mx.flank[E], mx.flank[C]

	// row ts-1: N has emitted every residue before the region
	fN[0] = float64(ts-1) * sp.NN
	fB[0] = fN[0] + sp.NB

	for j := ts; j <= te; j++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lo, hi := rows.Span(j)
		if err := ws.charge(pr, &used, hi-lo+1); err != nil {
			return nil, err
		}
		x := j - ts + 1
		code := s.At(j)
		e := ninf
		for i := lo; i <= hi; i++ {
			if ws.visit != nil {
				ws.visit(i, j)
			}
			c := rows.Index(i, j)

			mv := fB[x-1] + p.Entry(i)
			if k := rows.Index(i-1, j-1); k >= 0 {
				mv = add(mv, mx.M[k]+p.Trans(i-1, profile.MM))
				mv = add(mv, mx.I[k]+p.Trans(i-1, profile.IM))
				mv = add(mv, mx.D[k]+p.Trans(i-1, profile.DM))
			}
			mv += p.Match(i, code)

			iv := ninf
			if i < m {
				if k := rows.Index(i, j-1); k >= 0 {
					iv = add(mx.M[k]+p.Trans(i, profile.MI), mx.I[k]+p.Trans(i, profile.II)) + p.Insert(i, code)
				}
			}

			dv := ninf
			if k := c - 1; i > lo {
				dv = add(mx.M[k]+p.Trans(i-1, profile.MD), mx.D[k]+p.Trans(i-1, profile.DD))
			}

			mx.M[c], mx.I[c], mx.D[c] = mv, iv, dv
			e = add(e, mv+p.Exit(i))
			e = add(e, dv+p.Exit(i))
		}
		fE[x] = e
		fN[x] = float64(j) * sp.NN
		fB[x] = fN[x] + sp.NB
		fC[x] = add(fC[x-1]+sp.CC, e+sp.EC)
	}
	// C loops over the residues after the region
	mx.Total = fC[te-ts+1] + float64(s.Len()-te)*sp.CC + sp.CT
	return finish(mx)
}
