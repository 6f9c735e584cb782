// internal/output/json.go
package output

import (
	"io"
	"math"

	"cloudalign-core/align"
	"cloudalign/internal/jsonutil"
	"cloudalign/pkg/api"
)

// ToAPIAlignment converts a domain Alignment to the stable wire schema (v1).
func ToAPIAlignment(a *align.Alignment) api.AlignmentV1 {
	v := api.AlignmentV1{
		Target:       a.Target,
		Profile:      a.Profile,
		Accession:    a.Accession,
		TargetStart:  a.TargetStart,
		TargetEnd:    a.TargetEnd,
		TargetLen:    a.TargetLen,
		ProfileStart: a.ProfileStart,
		ProfileEnd:   a.ProfileEnd,
		ProfileLen:   a.ProfileLen,
		Bits:         a.Bits,
		EValue:       a.EValue,
		PValue:       a.PValue,
		Bias:         a.Bias / math.Ln2,
		Method:       a.Method.String(),
		Identity:     a.Identity(),
		States:       a.States,
		Cigar:        a.Cigar(),
		ProfileLine:  a.ProfileLine,
		Midline:      a.Midline,
		TargetLine:   a.TargetLine,
		PostLine:     a.PostLine,

		RegionTargetStart: a.Region.TargetStart,
		RegionTargetEnd:   a.Region.TargetEnd,
		RegionSeeds:       a.Region.Seeds,
		Cells:             a.Cells,
	}
	if len(a.Pairs) > 0 {
		v.Pairs = make([][2]int, len(a.Pairs))
		for k, p := range a.Pairs {
			v.Pairs[k] = [2]int{p.Profile, p.Target}
		}
	}
	return v
}

func toAPIAlignments(list []*align.Alignment) []api.AlignmentV1 {
	out := make([]api.AlignmentV1, 0, len(list))
	for _, a := range list {
		out = append(out, ToAPIAlignment(a))
	}
	return out
}

// WriteJSON writes a single JSON array of v1 alignments (pretty-indented).
func WriteJSON(w io.Writer, list []*align.Alignment) error {
	return jsonutil.EncodePretty(w, toAPIAlignments(list))
}
