package cmdutil

import (
	"context"

	"cloudalign-core/align"
	"cloudalign-core/profile"
	"cloudalign/internal/pipeline"
	"cloudalign/internal/seeds"
)

// RunStream runs the shared pipeline, applies a visitor, and streams results via send.
// It returns the number of kept outputs, the pipeline stats and the first error encountered.
func RunStream[T any](
	ctx context.Context,
	cfg pipeline.Config,
	targetFiles []string,
	profiles []*profile.Profile,
	table seeds.Table,
	eng pipeline.Aligner,
	visit func(*align.Alignment) (bool, T, error),
	send func(T) error,
) (int, pipeline.Stats, error) {
	total := 0
	st, err := pipeline.ForEachAlignment(ctx, cfg, targetFiles, profiles, table, eng, func(a *align.Alignment) error {
		keep, out, vErr := visit(a)
		if vErr != nil {
			return vErr
		}
		if !keep {
			return nil
		}
		if err := send(out); err != nil {
			return err
		}
		total++
		return nil
	})
	return total, st, err
}
