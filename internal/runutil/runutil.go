// internal/runutil/runutil.go
package runutil

import (
	"context"
	"runtime"

	"cloudalign-core/fasta"
)

// EffectiveThreads maps the CLI value to a worker count: 0 (or less) means
// all CPUs.
func EffectiveThreads(n int) int {
	if n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

// ResolveDBSize returns the database size used for E-values.
// Rules:
//   - a configured size > 0 is used as-is;
//   - otherwise target records are counted in a pre-pass over targetFiles;
//   - stdin cannot be read twice, so when any target file is "-" the number
//     of seeded targets is used instead and a warning is returned.
func ResolveDBSize(ctx context.Context, configured float64, targetFiles []string, seededTargets int) (float64, []string, error) {
	if configured > 0 {
		return configured, nil, nil
	}
	for _, p := range targetFiles {
		if p == "-" {
			return float64(max(seededTargets, 1)),
				[]string{"targets read from stdin; using the number of seeded targets as database size (set --db-size to override)"},
				nil
		}
	}
	n := 0
	for _, p := range targetFiles {
		err := fasta.ReadPath(ctx, p, func(fasta.Record) error {
			n++
			return nil
		})
		if err != nil {
			return 0, nil, err
		}
	}
	return float64(max(n, 1)), nil, nil
}
