package profile

import "math"

// Special holds the flanking-state transition scores for one target length.
// N and C emit unaligned target residues before and after the domain; B
// enters the profile and E leaves it. Emissions of N and C score zero
// against the null model.
type Special struct {
	NN, NB float64
	EC     float64
	CC, CT float64
	// Null is the null1 model log-likelihood of the whole target.
	Null float64
}

// SpecialFor is the length-dependent flanking model for a target of length L:
// an expected flank length of L/3 on each side and a null1 model with
// geometric length distribution of mean L.
func SpecialFor(L int) Special {
	if L < 1 {
		L = 1
	}
	fl := float64(L)
	loop := math.Log(fl / (fl + 3))
	move := math.Log(3 / (fl + 3))
	p1 := fl / (fl + 1)
	return Special{
		NN: loop, NB: move,
		EC: 0,
		CC: loop, CT: move,
		Null: fl*math.Log(p1) + math.Log(1-p1),
	}
}

// FreeFlanks scores flanks at zero and has no null1 correction, so the
// total score of a path equals its core profile score.
func FreeFlanks() Special { return Special{} }
