// internal/pipeline/aligner.go
package pipeline

import (
	"context"

	"cloudalign-core/band"
	"cloudalign-core/engine"
	"cloudalign-core/profile"
	"cloudalign-core/seq"
)

// Aligner is the minimal capability the pipeline needs.
// Any engine (including fakes in tests) can satisfy this.
type Aligner interface {
	AlignPair(ctx context.Context, ws *engine.Workspace, p *profile.Profile, target *seq.Sequence, seeds []band.Seed) (engine.Result, error)
}
