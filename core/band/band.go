// core/band/band.go
package band

import (
	"math"
	"sort"
)

// Seed is one coarse hit between a profile (query) and a target.
// Coordinates are 1-based and inclusive.
type Seed struct {
	Target      string
	QueryStart  int
	QueryEnd    int
	TargetStart int
	TargetEnd   int
	Score       float64
}

// Diagonal is the offset target - query at the seed start.
func (s Seed) Diagonal() int { return s.TargetStart - s.QueryStart }

// diagRange spans the start and end diagonals of a (possibly gapped) seed.
func (s Seed) diagRange() (int, int) {
	a, b := s.TargetStart-s.QueryStart, s.TargetEnd-s.QueryEnd
	if a > b {
		a, b = b, a
	}
	return a, b
}

func (s Seed) normalized() Seed {
	if s.QueryStart > s.QueryEnd {
		s.QueryStart, s.QueryEnd = s.QueryEnd, s.QueryStart
	}
	if s.TargetStart > s.TargetEnd {
		s.TargetStart, s.TargetEnd = s.TargetEnd, s.TargetStart
	}
	return s
}

// Params control region construction.
type Params struct {
	Tolerance    int     // band half-width in cells
	MinSeedScore float64 // seeds scoring below this are ignored; 0 disables
	MinCells     int     // regions with fewer cells are dropped
}

// Region is a connected bounded area of the alignment matrix: the rectangle
// [QueryStart..QueryEnd] x [TargetStart..TargetEnd] intersected with the
// diagonal band DiagLo <= target - query <= DiagHi.
type Region struct {
	QueryStart, QueryEnd   int
	TargetStart, TargetEnd int
	DiagLo, DiagHi         int

	Seeds         int
	BestSeedScore float64
}

// Empty reports whether the region holds no cells.
func (r Region) Empty() bool {
	return r.QueryStart > r.QueryEnd || r.TargetStart > r.TargetEnd || r.DiagLo > r.DiagHi
}

// RowSpan returns the profile interval of target row j. lo > hi when the row
// lies outside the region.
func (r Region) RowSpan(j int) (lo, hi int) {
	if j < r.TargetStart || j > r.TargetEnd {
		return 1, 0
	}
	lo, hi = r.QueryStart, r.QueryEnd
	if v := j - r.DiagHi; v > lo {
		lo = v
	}
	if v := j - r.DiagLo; v < hi {
		hi = v
	}
	return lo, hi
}

// Cells counts the in-region cells.
func (r Region) Cells() int {
	if r.Empty() {
		return 0
	}
	n := 0
	for j := r.TargetStart; j <= r.TargetEnd; j++ {
		if lo, hi := r.RowSpan(j); hi >= lo {
			n += hi - lo + 1
		}
	}
	return n
}

// Contains reports whether cell (i, j) is in the region.
func (r Region) Contains(i, j int) bool {
	lo, hi := r.RowSpan(j)
	return i >= lo && i <= hi
}

func (r Region) touches(o Region) bool {
	return r.QueryStart <= o.QueryEnd+1 && o.QueryStart <= r.QueryEnd+1 &&
		r.TargetStart <= o.TargetEnd+1 && o.TargetStart <= r.TargetEnd+1
}

// expand grows the rectangle and the diagonal band by w on every side.
func (r Region) expand(w int) Region {
	r.QueryStart -= w
	r.QueryEnd += w
	r.TargetStart -= w
	r.TargetEnd += w
	r.DiagLo -= w
	r.DiagHi += w
	return r
}

func (r Region) hull(o Region) Region {
	return Region{
		QueryStart:    min(r.QueryStart, o.QueryStart),
		QueryEnd:      max(r.QueryEnd, o.QueryEnd),
		TargetStart:   min(r.TargetStart, o.TargetStart),
		TargetEnd:     max(r.TargetEnd, o.TargetEnd),
		DiagLo:        min(r.DiagLo, o.DiagLo),
		DiagHi:        max(r.DiagHi, o.DiagHi),
		Seeds:         r.Seeds + o.Seeds,
		BestSeedScore: math.Max(r.BestSeedScore, o.BestSeedScore),
	}
}

// clip restricts r to 1..m x 1..l and tightens every side against the
// diagonal band so that each target row has a non-empty profile interval.
func (r Region) clip(m, l int) Region {
	r.QueryStart = max(r.QueryStart, 1)
	r.QueryEnd = min(r.QueryEnd, m)
	r.TargetStart = max(r.TargetStart, 1)
	r.TargetEnd = min(r.TargetEnd, l)
	for pass := 0; pass < 2 && !r.Empty(); pass++ {
		r.TargetStart = max(r.TargetStart, r.QueryStart+r.DiagLo)
		r.TargetEnd = min(r.TargetEnd, r.QueryEnd+r.DiagHi)
		r.QueryStart = max(r.QueryStart, r.TargetStart-r.DiagHi)
		r.QueryEnd = min(r.QueryEnd, r.TargetEnd-r.DiagLo)
		r.DiagLo = max(r.DiagLo, r.TargetStart-r.QueryEnd)
		r.DiagHi = min(r.DiagHi, r.TargetEnd-r.QueryStart)
	}
	return r
}

// Build turns seeds for one (profile, target) pair into non-overlapping
// regions ordered by query start, then target start. m and l are the
// profile and target lengths. The result depends only on the seed set and
// p, not on seed order.
func Build(seeds []Seed, m, l int, p Params) []Region {
	if m < 1 || l < 1 {
		return nil
	}
	w := max(p.Tolerance, 0)

	kept := make([]Seed, 0, len(seeds))
	for _, s := range seeds {
		if p.MinSeedScore != 0 && s.Score < p.MinSeedScore {
			continue
		}
		kept = append(kept, s.normalized())
	}
	if len(kept) == 0 {
		return nil
	}
	sort.Slice(kept, func(a, b int) bool {
		x, y := kept[a], kept[b]
		if x.Diagonal() != y.Diagonal() {
			return x.Diagonal() < y.Diagonal()
		}
		if x.QueryStart != y.QueryStart {
			return x.QueryStart < y.QueryStart
		}
		if x.TargetStart != y.TargetStart {
			return x.TargetStart < y.TargetStart
		}
		if x.QueryEnd != y.QueryEnd {
			return x.QueryEnd < y.QueryEnd
		}
		return x.TargetEnd < y.TargetEnd
	})

	// group seeds with nearby diagonals whose expanded extents overlap or abut
	var groups []Region
	for _, s := range kept {
		dlo, dhi := s.diagRange()
		r := Region{
			QueryStart: s.QueryStart, QueryEnd: s.QueryEnd,
			TargetStart: s.TargetStart, TargetEnd: s.TargetEnd,
			DiagLo: dlo, DiagHi: dhi,
			Seeds: 1, BestSeedScore: s.Score,
		}
		joined := false
		for i := len(groups) - 1; i >= 0; i-- {
			g := &groups[i]
			if dlo <= g.DiagHi+w && g.DiagLo <= dhi+w && g.expand(w).touches(r.expand(w)) {
				*g = g.hull(r)
				joined = true
				break
			}
		}
		if !joined {
			groups = append(groups, r)
		}
	}

	for i := range groups {
		groups[i] = groups[i].expand(w)
	}

	// merge touching rectangles to a fixed point
	for merged := true; merged; {
		merged = false
		for i := 0; i < len(groups) && !merged; i++ {
			for j := i + 1; j < len(groups); j++ {
				if groups[i].touches(groups[j]) {
					groups[i] = groups[i].hull(groups[j])
					groups = append(groups[:j], groups[j+1:]...)
					merged = true
					break
				}
			}
		}
	}

	out := groups[:0]
	for _, g := range groups {
		c := g.clip(m, l)
		if c.Empty() {
			continue
		}
		if cells := c.Cells(); cells == 0 || cells < p.MinCells {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].QueryStart != out[b].QueryStart {
			return out[a].QueryStart < out[b].QueryStart
		}
		return out[a].TargetStart < out[b].TargetStart
	})
	return out
}
