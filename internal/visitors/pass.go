package visitors

import "cloudalign-core/align"

// PassThrough returns the alignment unchanged.
type PassThrough struct{}

func (PassThrough) Visit(a *align.Alignment) (keep bool, out *align.Alignment, err error) {
	return true, a, nil
}

// Limit keeps at most N alignments per (profile, target) pair, in arrival
// order. N <= 0 keeps everything. Not safe for concurrent use; the pipeline
// calls visitors from a single goroutine.
type Limit struct {
	N    int
	seen map[[2]string]int
}

func (l *Limit) Visit(a *align.Alignment) (bool, *align.Alignment, error) {
	if l.N <= 0 {
		return true, a, nil
	}
	if l.seen == nil {
		l.seen = make(map[[2]string]int)
	}
	k := [2]string{a.Profile, a.Target}
	if l.seen[k] >= l.N {
		return false, nil, nil
	}
	l.seen[k]++
	return true, a, nil
}
