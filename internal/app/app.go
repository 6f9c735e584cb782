// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"cloudalign-core/align"
	"cloudalign-core/engine"
	"cloudalign-core/profile"
	"cloudalign/internal/appcore"
	"cloudalign/internal/cli"
	"cloudalign/internal/clibase"
	"cloudalign/internal/cmdutil"
	"cloudalign/internal/common"
	"cloudalign/internal/metrics"
	"cloudalign/internal/runutil"
	"cloudalign/internal/seeds"
	"cloudalign/internal/tracing"
	"cloudalign/internal/version"
	"cloudalign/internal/visitors"
	"cloudalign/internal/writers"
)

// flush writes buffered stdout; a closed pipe downstream is not an error.
func flush(outw *bufio.Writer, stderr io.Writer, code int) int {
	if e := writers.IgnoreBrokenPipe(outw.Flush()); e != nil {
		_, _ = fmt.Fprintln(stderr, e)
		return 3
	}
	return code
}

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)

	fs := cli.NewFlagSet("cloudalign")
	fs.SetOutput(io.Discard)

	if len(argv) == 0 {
		argv = []string{"-h"}
	}

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		switch {
		case errors.Is(err, clibase.ErrPrintedAndExitOK):
			cli.PrintExamples(outw)
			return flush(outw, stderr, 0)
		case errors.Is(err, flag.ErrHelp):
			fs.SetOutput(outw)
			fs.Usage()
			return flush(outw, stderr, 0)
		}
		_, _ = fmt.Fprintln(stderr, err)
		fs.SetOutput(outw)
		fs.Usage()
		return flush(outw, stderr, 2)
	}

	if opts.Version {
		_, _ = fmt.Fprintf(outw, "cloudalign version %s\n", version.Version)
		return flush(outw, stderr, 0)
	}

	log := cmdutil.NewLogger(stderr, opts.Verbose, opts.Quiet)

	mode, err := profile.ParseMode(opts.Config.ProfileMode)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}
	lists := make([][]*profile.Profile, 0, len(opts.HMMFiles))
	for _, path := range opts.HMMFiles {
		ps, err := profile.LoadHMMER(path)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 2
		}
		lists = append(lists, ps)
	}
	profiles, warns := common.UniqueProfiles(lists, mode)
	for _, w := range warns {
		cmdutil.Warnf(log, "%s", w)
	}
	if len(profiles) == 0 {
		_, _ = fmt.Fprintln(stderr, "no profiles loaded")
		return 2
	}

	table, err := seeds.Load(opts.SeedsFile, opts.SeedFormat)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}
	for _, name := range common.UnknownSeedProfiles(profiles, table) {
		cmdutil.Warnf(log, "seeds reference unknown profile %q", name)
	}

	ec, err := opts.Config.Engine()
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}
	eng := engine.New(ec)
	db, warns, err := runutil.ResolveDBSize(parent, ec.DBSize, opts.TargetFiles, common.SeededTargets(profiles, table))
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return 130
		}
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}
	for _, w := range warns {
		cmdutil.Warnf(log, "%s", w)
	}
	eng.SetDBSize(db)
	log.Debug("configured",
		"profiles", len(profiles),
		"seeds", table.Len(),
		"db_size", db,
		"mode", ec.Method.String(),
		"profile_mode", mode.String(),
	)

	shutdown, err := tracing.Setup(opts.TraceFile)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 3
	}
	var m *metrics.Metrics
	if opts.MetricsFile != "" {
		m = metrics.New()
	}

	var visit appcore.VisitorFunc[*align.Alignment] = visitors.PassThrough{}.Visit
	if opts.MaxDomains > 0 {
		visit = (&visitors.Limit{N: opts.MaxDomains}).Visit
	}

	coreOpts := appcore.Options{
		TargetFiles:     opts.TargetFiles,
		Threads:         opts.Config.Threads,
		NoMatchExitCode: opts.NoMatchExitCode,
		Logger:          log,
		Metrics:         m,
		Tracer:          tracing.Tracer(),
	}
	writer := appcore.NewAlignmentWriterFactory(opts.Output, opts.Sort, opts.Header, opts.Pretty)
	code := appcore.Run[*align.Alignment](parent, stdout, stderr, coreOpts, profiles, table, eng, visit, writer)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		if code == 0 {
			code = 3
		}
	}
	if err := m.WriteFile(opts.MetricsFile); err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		if code == 0 {
			code = 3
		}
	}
	return code
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
