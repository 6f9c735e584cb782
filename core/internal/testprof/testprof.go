// Package testprof builds small profiles for tests.
package testprof

import (
	"cloudalign-core/alphabet"
	"cloudalign-core/profile"
)

// Peaked returns match emissions that put half the mass on the consensus
// residue and spread the rest by background composition.
func Peaked(consensus string) [][]float64 {
	rows := make([][]float64, len(consensus))
	for k := range consensus {
		row := make([]float64, alphabet.K)
		for i := range row {
			row[i] = 0.5 * alphabet.Background[i]
		}
		row[alphabet.Index(consensus[k])] += 0.5
		rows[k] = row
	}
	return rows
}

// BackgroundRows returns n rows of background composition.
func BackgroundRows(n int) [][]float64 {
	rows := make([][]float64, n)
	for k := range rows {
		row := make([]float64, alphabet.K)
		copy(row, alphabet.Background[:])
		rows[k] = row
	}
	return rows
}

// Gapped is a transition set with cheap gaps so insert and delete paths
// carry real probability mass.
var Gapped = [profile.NTrans]float64{0.8, 0.1, 0.1, 0.6, 0.4, 0.6, 0.4}

// Rigid allows only match-to-match moves.
var Rigid = [profile.NTrans]float64{1, 0, 0, 1, 0, 1, 0}

// New builds a profile with the given consensus, transitions and mode.
// Transitions out of the last node are forced to M -> E only.
func New(consensus string, t [profile.NTrans]float64, mode profile.Mode) *profile.Profile {
	m := len(consensus)
	trans := make([][profile.NTrans]float64, m+1)
	for k := 0; k < m; k++ {
		trans[k] = t
	}
	trans[0] = [profile.NTrans]float64{1, 0, 0, 1, 0, 1, 0}
	trans[m] = [profile.NTrans]float64{1, 0, 0, 1, 0, 1, 0}
	p, err := profile.New(profile.Params{
		Name:   "test",
		Match:  Peaked(consensus),
		Insert: BackgroundRows(m),
		Trans:  trans,
		Mode:   mode,
	})
	if err != nil {
		panic(err)
	}
	return p
}
