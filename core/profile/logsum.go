package profile

import "math"

// Epsilon guards log(0) when a probability is derived from sums of posteriors
// or odds ratios.
const Epsilon = 1e-300

// LogSum returns log(exp(a) + exp(b)) without leaving log space.
func LogSum(a, b float64) float64 {
	if math.IsInf(a, -1) {
		return b
	}
	if math.IsInf(b, -1) {
		return a
	}
	if a < b {
		a, b = b, a
	}
	return a + math.Log1p(math.Exp(b-a))
}

// SafeLog is log(max(x, Epsilon)).
func SafeLog(x float64) float64 {
	if x < Epsilon {
		x = Epsilon
	}
	return math.Log(x)
}
