package decode

import (
	"math"

	"cloudalign-core/alphabet"
	"cloudalign-core/profile"
	"cloudalign-core/seq"
)

// Omega is the prior probability of the biased-composition null2 model.
const Omega = 1.0 / 256

// Null2Bias estimates the composition bias correction (nats) of the domain
// spanning target rows jFrom..jTo. The null2 emission odds of each residue
// are the posterior-weighted expectation of the profile's emission odds
// over the domain; flank occupancy contributes odds of 1. The result is
// never negative.
func Null2Bias(p *profile.Profile, s *seq.Sequence, post *Posterior, jFrom, jTo int) float64 {
	if jFrom < 1 || jTo < jFrom {
		return 0
	}
	m := p.Len()
	wM := make([]float64, m+1)
	wI := make([]float64, m+1)
	var wX float64
	for j := jFrom; j <= jTo; j++ {
		lo, hi := post.Rows.Span(j)
		for i := lo; i <= hi; i++ {
			k := post.Rows.Index(i, j)
			wM[i] += post.M[k]
			wI[i] += post.I[k]
		}
		wX += post.FlankN(j) + post.FlankC(j)
	}
	ld := float64(jTo - jFrom + 1)

	var odds [alphabet.Kp]float64
	for c := alphabet.Code(0); c < alphabet.Kp; c++ {
		v := wX
		for i := 1; i <= m; i++ {
			if wM[i] > 0 {
				v += wM[i] * math.Exp(p.Match(i, c))
			}
			if wI[i] > 0 {
				v += wI[i] * math.Exp(p.Insert(i, c))
			}
		}
		odds[c] = v / ld
	}

	corr := 0.0
	for j := jFrom; j <= jTo; j++ {
		corr += profile.SafeLog(odds[s.At(j)])
	}
	bias := profile.LogSum(0, math.Log(Omega)+corr) - math.Log1p(Omega)
	if bias < 0 {
		return 0
	}
	return bias
}
