// core/engine/engine.go
package engine

import (
	"context"
	"errors"
	"fmt"

	"cloudalign-core/align"
	"cloudalign-core/band"
	"cloudalign-core/decode"
	"cloudalign-core/dp"
	"cloudalign-core/profile"
	"cloudalign-core/seq"
)

// FlankModel selects the special-state scoring used around each region.
type FlankModel int

const (
	// FlankLength is the length-dependent model with null1 correction.
	FlankLength FlankModel = iota
	// FlankNone scores flanks at zero, so bits reflect core states only.
	FlankNone
)

func (f FlankModel) String() string {
	if f == FlankNone {
		return "none"
	}
	return "length"
}

// ParseFlankModel accepts "length" or "none".
func ParseFlankModel(s string) (FlankModel, error) {
	switch s {
	case "length", "":
		return FlankLength, nil
	case "none":
		return FlankNone, nil
	}
	return FlankLength, fmt.Errorf("unknown flank model %q", s)
}

// Config holds alignment parameters.
type Config struct {
	Band           band.Params
	TrimThreshold  float64 // minimum posterior kept at alignment ends
	Method         align.Method
	MinScore       float64 // bits
	MaxEvalue      float64 // 0 disables
	MaxCells       int     // per region, 0 = unlimited
	FlankModel     FlankModel
	BiasCorrection bool
	DBSize         float64
}

// DefaultConfig returns the defaults used by the CLI.
func DefaultConfig() Config {
	return Config{
		Band:           band.Params{Tolerance: 10},
		TrimThreshold:  0.5,
		Method:         align.Viterbi,
		MaxEvalue:      10,
		FlankModel:     FlankLength,
		BiasCorrection: true,
	}
}

// Reason explains why a region produced no alignment.
type Reason string

const (
	ReasonBudget         Reason = "budget"
	ReasonNoPath         Reason = "no-path"
	ReasonBelowThreshold Reason = "below-threshold"
	ReasonEmptyTrace     Reason = "empty-trace"
)

// Diagnostic records a skipped region.
type Diagnostic struct {
	Region band.Region
	Reason Reason
	Err    error
}

// Result is everything AlignPair learned about one (profile, target) pair.
type Result struct {
	Alignments  []*align.Alignment
	Diagnostics []Diagnostic
	Regions     int
	Cells       int64 // DP cells evaluated over all passes
}

// ErrNilInput is returned when the profile or target is missing.
var ErrNilInput = errors.New("engine: nil profile or target")

// Workspace bundles the per-worker DP and decoding buffers.
type Workspace struct {
	dp  *dp.Workspace
	dec *decode.Workspace
}

// NewWorkspace returns a workspace for one goroutine.
func NewWorkspace() *Workspace {
	return &Workspace{dp: dp.NewWorkspace(), dec: decode.NewWorkspace()}
}

// Engine aligns profiles to targets inside seeded regions.
type Engine struct {
	cfg Config
}

// New creates a new Engine.
func New(c Config) *Engine { return &Engine{cfg: c} }

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// SetDBSize updates the database size used for E-values.
func (e *Engine) SetDBSize(n float64) { e.cfg.DBSize = n }

func (e *Engine) special(l int) profile.Special {
	if e.cfg.FlankModel == FlankNone {
		return profile.FreeFlanks()
	}
	return profile.SpecialFor(l)
}

// AlignPair aligns p to target inside the regions built from seeds.
// Regions that yield nothing are reported as diagnostics; only missing
// inputs and context cancellation are returned as errors. ws may be nil.
func (e *Engine) AlignPair(ctx context.Context, ws *Workspace, p *profile.Profile, target *seq.Sequence, seeds []band.Seed) (Result, error) {
	var res Result
	if p == nil || target == nil {
		return res, ErrNilInput
	}
	if ws == nil {
		ws = NewWorkspace()
	}
	start := ws.dp.Cells()
	defer func() { res.Cells = ws.dp.Cells() - start }()

	regions := band.Build(seeds, p.Len(), target.Len(), e.cfg.Band)
	res.Regions = len(regions)
	sp := e.special(target.Len())

	for _, r := range regions {
		a, reason, err := e.alignRegion(ctx, ws, p, target, r, sp)
		switch {
		case err != nil && reason == "":
			return res, err
		case reason != "":
			res.Diagnostics = append(res.Diagnostics, Diagnostic{Region: r, Reason: reason, Err: err})
		default:
			res.Alignments = append(res.Alignments, a)
		}
	}
	align.Sort(res.Alignments)
	return res, nil
}

func (e *Engine) alignRegion(ctx context.Context, ws *Workspace, p *profile.Profile, target *seq.Sequence, r band.Region, sp profile.Special) (*align.Alignment, Reason, error) {
	pr := dp.Problem{
		Profile:  p,
		Target:   target,
		Rows:     band.NewRows(r),
		Special:  sp,
		MaxCells: e.cfg.MaxCells,
	}

	fwd, err := ws.dp.Forward(ctx, pr)
	if err != nil {
		return nil, classify(err), err
	}
	// Forward bounds Viterbi from above and the bias is never negative
	if fb := align.BitScore(fwd.Total, sp.Null, 0); fb <= e.cfg.MinScore {
		return nil, ReasonBelowThreshold, fmt.Errorf("%w: forward %.2f bits", align.ErrBelowThreshold, fb)
	}
	bwd, err := ws.dp.Backward(ctx, pr)
	if err != nil {
		return nil, classify(err), err
	}
	vit, err := ws.dp.Viterbi(ctx, pr)
	if err != nil {
		return nil, classify(err), err
	}
	post := decode.ComputePosterior(fwd, bwd, target.Len(), &ws.dec.Post)

	var path decode.Path
	if e.cfg.Method == align.Posterior {
		path, err = ws.dec.OptimalAccuracy(pr, post)
	} else {
		path, err = decode.ViterbiTrace(vit, pr)
	}
	if err != nil {
		return nil, classify(err), err
	}
	path, err = decode.Trim(path, post, e.cfg.TrimThreshold)
	if err != nil {
		return nil, ReasonEmptyTrace, err
	}

	sc := align.Scores{Method: e.cfg.Method, Forward: fwd.Total, Viterbi: vit.Total, Null: sp.Null}
	if e.cfg.BiasCorrection {
		_, _, j0, j1 := path.Bounds()
		sc.Bias = decode.Null2Bias(p, target, post, j0, j1)
	}
	a, err := align.Assemble(p, target, path, post, sc, align.Policy{
		MinScore:  e.cfg.MinScore,
		MaxEvalue: e.cfg.MaxEvalue,
		DBSize:    e.cfg.DBSize,
	})
	if err != nil {
		return nil, classify(err), err
	}
	return a, "", nil
}

// classify maps per-region sentinels to a diagnostic reason; anything else
// (cancellation included) is a real error.
func classify(err error) Reason {
	switch {
	case errors.Is(err, dp.ErrBudgetExceeded):
		return ReasonBudget
	case errors.Is(err, dp.ErrNoPath):
		return ReasonNoPath
	case errors.Is(err, align.ErrBelowThreshold):
		return ReasonBelowThreshold
	case errors.Is(err, decode.ErrEmptyTrace):
		return ReasonEmptyTrace
	}
	return ""
}
