package band

// Rows is a region laid out as one contiguous profile interval per target
// row, with a flat cell index for DP storage.
type Rows struct {
	Region Region
	lo, hi []int // indexed by j - TargetStart
	off    []int // prefix cell counts; off[n] is the total
}

// NewRows lays out r. r must come from Build (every row non-empty).
func NewRows(r Region) *Rows {
	n := r.TargetEnd - r.TargetStart + 1
	if r.Empty() || n <= 0 {
		return &Rows{Region: r, off: []int{0}}
	}
	rw := &Rows{
		Region: r,
		lo:     make([]int, n),
		hi:     make([]int, n),
		off:    make([]int, n+1),
	}
	for x := 0; x < n; x++ {
		lo, hi := r.RowSpan(r.TargetStart + x)
		rw.lo[x], rw.hi[x] = lo, hi
		size := 0
		if hi >= lo {
			size = hi - lo + 1
		}
		rw.off[x+1] = rw.off[x] + size
	}
	return rw
}

// First and Last are the first and last target rows.
func (r *Rows) First() int { return r.Region.TargetStart }
func (r *Rows) Last() int  { return r.Region.TargetEnd }

// Span is the profile interval of target row j; lo > hi outside the region.
func (r *Rows) Span(j int) (lo, hi int) {
	x := j - r.Region.TargetStart
	if x < 0 || x >= len(r.lo) {
		return 1, 0
	}
	return r.lo[x], r.hi[x]
}

// Contains reports whether cell (i, j) is in the region.
func (r *Rows) Contains(i, j int) bool {
	lo, hi := r.Span(j)
	return i >= lo && i <= hi
}

// Index is the flat storage index of an in-region cell, or -1.
func (r *Rows) Index(i, j int) int {
	x := j - r.Region.TargetStart
	if x < 0 || x >= len(r.lo) || i < r.lo[x] || i > r.hi[x] {
		return -1
	}
	return r.off[x] + i - r.lo[x]
}

// Total is the number of in-region cells.
func (r *Rows) Total() int { return r.off[len(r.off)-1] }
