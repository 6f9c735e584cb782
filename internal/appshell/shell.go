package appshell

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// RunFunc is the signature of a tool entry point.
type RunFunc func(ctx context.Context, argv []string, stdout, stderr io.Writer) int

// Main runs run with a context cancelled on the first SIGINT/SIGTERM and
// exits with its code. A second signal kills the process outright.
func Main(run RunFunc) {
	os.Exit(exec(run, os.Args[1:]))
}

func exec(run RunFunc, argv []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		stop()
	}()

	if len(argv) == 0 {
		argv = []string{"-h"}
	}
	return exitCode(ctx, run(ctx, argv, os.Stdout, os.Stderr))
}

// exitCode reports 130 for a run cut short by a signal, unless the run
// already failed for another reason.
func exitCode(ctx context.Context, code int) int {
	if ctx.Err() != nil && (code == 0 || code == 3) {
		return 130
	}
	return code
}
