// internal/appcore/core.go
package appcore

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"cloudalign-core/align"
	"cloudalign-core/profile"
	"cloudalign/internal/cmdutil"
	"cloudalign/internal/metrics"
	"cloudalign/internal/pipeline"
	"cloudalign/internal/runutil"
	"cloudalign/internal/seeds"
	"cloudalign/internal/writers"
)

// Options carry the run-wide settings that are not alignment parameters.
type Options struct {
	TargetFiles []string

	Threads int

	NoMatchExitCode int

	Logger  *slog.Logger
	Metrics *metrics.Metrics
	Tracer  trace.Tracer
}

type VisitorFunc[T any] func(*align.Alignment) (keep bool, out T, err error)

type WriterFactory[T any] interface {
	Start(out io.Writer, bufSize int) (chan<- T, <-chan error)
}

// Run aligns, visits and writes; it returns the process exit code.
func Run[T any](
	parent context.Context,
	stdout, stderr io.Writer,
	o Options,
	profiles []*profile.Profile,
	table seeds.Table,
	eng pipeline.Aligner,
	visit VisitorFunc[T],
	wf WriterFactory[T],
) int {
	outw := bufio.NewWriter(stdout)
	thr := runutil.EffectiveThreads(o.Threads)

	inCh, writeErr := wf.Start(outw, thr*4)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	total, st, perr := cmdutil.RunStream[T](
		ctx,
		pipeline.Config{
			Threads: thr,
			Tracer:  o.Tracer,
			Metrics: o.Metrics,
			Logger:  o.Logger,
		},
		o.TargetFiles,
		profiles,
		table,
		eng,
		visit,
		func(x T) error {
			select {
			case inCh <- x:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	)

	close(inCh)

	if werr := <-writeErr; writers.IsBrokenPipe(werr) {
		return 0
	} else if werr != nil {
		fmt.Fprintln(stderr, werr)
		return 3
	}
	if e := outw.Flush(); writers.IsBrokenPipe(e) {
		return 0
	} else if e != nil {
		fmt.Fprintln(stderr, e)
		return 3
	}

	if perr != nil {
		if errors.Is(perr, context.Canceled) {
			return 130
		}
		fmt.Fprintln(stderr, perr)
		return 3
	}
	if o.Logger != nil {
		o.Logger.Info("run complete",
			slog.Int("targets", st.Targets),
			slog.Int("jobs", st.Jobs),
			slog.Int("alignments", total),
		)
	}
	if total == 0 {
		return o.NoMatchExitCode
	}
	return 0
}
