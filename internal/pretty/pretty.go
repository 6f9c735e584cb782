// internal/pretty/pretty.go
package pretty

import (
	"fmt"
	"strings"

	"cloudalign-core/align"
)

// Options control the ASCII rendering.
type Options struct {
	// Columns per block line. If <=0, the alignment is not wrapped.
	Width int

	// Print the posterior line under the target line.
	ShowPosterior bool

	// Glyph used in the midline for positive-scoring substitutions.
	PositiveGlyph string
}

// DefaultOptions mirror HMMER's domain alignment look.
var DefaultOptions = Options{
	Width:         60,
	ShowPosterior: true,
	PositiveGlyph: "+",
}

const linePrefix = "# "

// Render returns the aligned block for a, each line prefixed with "# " so the
// block can sit between TSV rows.
func Render(a *align.Alignment) string { return RenderWithOptions(a, DefaultOptions) }

// RenderWithOptions is Render with explicit options.
func RenderWithOptions(a *align.Alignment, opt Options) string {
	if a == nil || len(a.States) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s== %s vs %s  bits=%.1f  E=%.2g  %s\n",
		linePrefix, a.Profile, a.Target, a.Bits, a.EValue, a.Method)

	name := len(a.Profile)
	if len(a.Target) > name {
		name = len(a.Target)
	}
	num := len(fmt.Sprint(maxInt(a.ProfileEnd, a.TargetEnd)))
	pad := strings.Repeat(" ", name+num+2)

	midline := a.Midline
	if opt.PositiveGlyph != "" && opt.PositiveGlyph != "+" {
		midline = strings.ReplaceAll(midline, "+", opt.PositiveGlyph)
	}

	width := opt.Width
	if width <= 0 {
		width = len(a.States)
	}
	pi, tj := a.ProfileStart, a.TargetStart
	for lo := 0; lo < len(a.States); lo += width {
		hi := lo + width
		if hi > len(a.States) {
			hi = len(a.States)
		}
		pFrom, pTo := span(a.States[lo:hi], &pi, 'M', 'D')
		tFrom, tTo := span(a.States[lo:hi], &tj, 'M', 'I')

		fmt.Fprintf(&b, "%s%*s %*d %s %d\n", linePrefix, name, a.Profile, num, pFrom, a.ProfileLine[lo:hi], pTo)
		fmt.Fprintf(&b, "%s%s%s\n", linePrefix, pad, midline[lo:hi])
		fmt.Fprintf(&b, "%s%*s %*d %s %d\n", linePrefix, name, a.Target, num, tFrom, a.TargetLine[lo:hi], tTo)
		if opt.ShowPosterior && len(a.PostLine) == len(a.States) {
			fmt.Fprintf(&b, "%s%s%s PP\n", linePrefix, pad, a.PostLine[lo:hi])
		}
	}
	return b.String()
}

// span advances cursor over the states that consume a residue of one
// sequence and returns the first and last coordinates shown for the chunk.
func span(states string, cursor *int, consume ...byte) (from, to int) {
	from = *cursor
	n := 0
	for x := 0; x < len(states); x++ {
		for _, c := range consume {
			if states[x] == c {
				n++
				break
			}
		}
	}
	if n == 0 {
		return from, from - 1
	}
	*cursor += n
	return from, *cursor - 1
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
