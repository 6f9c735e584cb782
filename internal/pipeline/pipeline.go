// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"cloudalign-core/align"
	"cloudalign-core/engine"
	"cloudalign-core/fasta"
	"cloudalign-core/profile"
	"cloudalign-core/seq"
	"cloudalign/internal/metrics"
	"cloudalign/internal/seeds"
	"cloudalign/internal/tracing"
)

// Config controls the alignment pipeline.
type Config struct {
	Threads int          // number of worker goroutines (>=1)
	Tracer  trace.Tracer // nil uses the global provider
	Metrics *metrics.Metrics
	Logger  *slog.Logger // nil discards
}

// Stats summarizes a run.
type Stats struct {
	Targets    int // target records read
	Jobs       int // (profile, target) pairs aligned
	Alignments int
}

type job struct {
	prof   *profile.Profile
	target *seq.Sequence
	table  seeds.Table
}

type result struct {
	job job
	res engine.Result
	err error
}

// ForEachAlignment reads targets from targetFiles, aligns each against every
// profile that has seeds for it and calls visit for each reported alignment.
// It returns the first error encountered (including context cancellation).
func ForEachAlignment(
	ctx context.Context,
	cfg Config,
	targetFiles []string,
	profiles []*profile.Profile,
	table seeds.Table,
	eng Aligner,
	visit func(*align.Alignment) error,
) (Stats, error) {
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}
	if cfg.Tracer == nil {
		cfg.Tracer = tracing.Tracer()
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	// target name -> profiles seeding it
	byTarget := make(map[string][]*profile.Profile)
	for _, p := range profiles {
		for _, t := range table.Targets(p.Name) {
			byTarget[t] = append(byTarget[t], p)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan job, cfg.Threads*2)
	results := make(chan result, cfg.Threads*2)

	// Workers
	var wg sync.WaitGroup
	wg.Add(cfg.Threads)
	for w := 0; w < cfg.Threads; w++ {
		go func() {
			defer wg.Done()
			ws := engine.NewWorkspace()
			for {
				select {
				case <-ctx.Done():
					return
				case j, ok := <-jobs:
					if !ok {
						return
					}
					seedList := j.table.Lookup(j.prof.Name, j.target.Name)
					jctx, span := tracing.StartJob(ctx, cfg.Tracer, j.prof.Name, j.target.Name, len(seedList))
					start := time.Now()
					res, err := eng.AlignPair(jctx, ws, j.prof, j.target, seedList)
					cfg.Metrics.ObserveJob(res, err, time.Since(start))
					tracing.EndJob(span, res, err)

					select {
					case results <- result{job: j, res: res, err: err}:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

	// Collector
	var (
		st   Stats
		cerr error
		cwg  sync.WaitGroup
		mu   sync.Mutex
	)
	setErr := func(err error) {
		mu.Lock()
		if cerr == nil {
			cerr = err
			cancel()
		}
		mu.Unlock()
	}
	cwg.Add(1)
	go func() {
		defer cwg.Done()
		for r := range results {
			if ctx.Err() != nil {
				continue
			}
			st.Jobs++
			if r.err != nil {
				setErr(fmt.Errorf("%s vs %s: %w", r.job.prof.Name, r.job.target.Name, r.err))
				continue
			}
			for _, d := range r.res.Diagnostics {
				log.Debug("region_skipped",
					slog.String("profile", r.job.prof.Name),
					slog.String("target", r.job.target.Name),
					slog.Int("target_start", d.Region.TargetStart),
					slog.Int("target_end", d.Region.TargetEnd),
					slog.String("reason", string(d.Reason)),
				)
			}
			for _, a := range r.res.Alignments {
				if err := visit(a); err != nil {
					setErr(err)
					break
				}
				st.Alignments++
			}
		}
	}()

	// Feed work
	recs, rerr := fasta.Stream(ctx, targetFiles)
feed:
	for rec := range recs {
		st.Targets++
		profs := byTarget[rec.ID]
		if len(profs) == 0 {
			continue
		}
		target, err := seq.FromRecord(rec)
		if err != nil {
			log.Warn("skipping target", slog.String("target", rec.ID), slog.String("error", err.Error()))
			continue
		}
		for _, p := range profs {
			select {
			case <-ctx.Done():
				break feed
			case jobs <- job{prof: p, target: target, table: table}:
			}
		}
	}
	// unblock the reader if we stopped early
	go func() {
		for range recs {
		}
	}()
	if err := <-rerr; err != nil {
		setErr(err)
	}

	close(jobs)
	wg.Wait()
	close(results)
	cwg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if cerr != nil {
		return st, cerr
	}
	return st, ctx.Err()
}
