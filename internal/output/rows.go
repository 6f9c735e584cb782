// internal/output/rows.go
package output

import (
	"fmt"
	"math"
	"strconv"

	"cloudalign-core/align"
)

// FormatEvalue prints E-values the way HMMER tables do (two significant digits).
func FormatEvalue(e float64) string { return strconv.FormatFloat(e, 'g', 2, 64) }

// FormatRowTSV returns the TSVHeader columns for a (no trailing newline).
func FormatRowTSV(a *align.Alignment) string {
	return fmt.Sprintf("%s\t%s\t%d\t%d\t%d\t%d\t%.1f\t%s\t%.1f\t%.2f\t%s",
		a.Target, a.Profile,
		a.TargetStart, a.TargetEnd,
		a.ProfileStart, a.ProfileEnd,
		a.Bits, FormatEvalue(a.EValue),
		a.Bias/math.Ln2, a.Identity(),
		a.Cigar(),
	)
}
