package appcore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"cloudalign-core/align"
	"cloudalign-core/band"
	"cloudalign-core/engine"
	"cloudalign-core/profile"
	"cloudalign-core/seq"
	"cloudalign/internal/seeds"
	"cloudalign/internal/visitors"
)

type fakeAligner struct {
	hits int
	err  error
}

func (f fakeAligner) AlignPair(_ context.Context, _ *engine.Workspace, p *profile.Profile, x *seq.Sequence, _ []band.Seed) (engine.Result, error) {
	var res engine.Result
	for k := 0; k < f.hits; k++ {
		res.Alignments = append(res.Alignments, &align.Alignment{
			Profile: p.Name, Target: x.Name, States: "M", ProfileLine: "M", Midline: "M", TargetLine: "M",
			TargetStart: k + 1,
		})
	}
	return res, f.err
}

func inputs(t *testing.T) ([]*profile.Profile, seeds.Table) {
	t.Helper()
	ps, err := profile.LoadHMMER("../../testdata/demo.hmm")
	if err != nil {
		t.Fatal(err)
	}
	tab, err := seeds.Load("../../testdata/seeds.json", seeds.FormatAuto)
	if err != nil {
		t.Fatal(err)
	}
	return ps, tab
}

func runWith(t *testing.T, ctx context.Context, eng fakeAligner, stdout io.Writer) (int, string) {
	t.Helper()
	ps, tab := inputs(t)
	var errBuf bytes.Buffer
	code := Run[*align.Alignment](ctx, stdout, &errBuf,
		Options{TargetFiles: []string{"../../testdata/targets.fa"}, Threads: 2, NoMatchExitCode: 4},
		ps, tab, eng, visitors.PassThrough{}.Visit,
		NewAlignmentWriterFactory("text", true, false, false))
	return code, errBuf.String()
}

func TestRunExitCodes(t *testing.T) {
	var out bytes.Buffer
	if code, msg := runWith(t, context.Background(), fakeAligner{hits: 2}, &out); code != 0 {
		t.Fatalf("exit %d: %s", code, msg)
	}
	if n := strings.Count(out.String(), "\n"); n != 6 {
		t.Fatalf("want 6 rows (3 pairs x 2), got %d:\n%s", n, out.String())
	}
	if code, _ := runWith(t, context.Background(), fakeAligner{}, io.Discard); code != 4 {
		t.Fatalf("no-match exit code %d", code)
	}
	if code, msg := runWith(t, context.Background(), fakeAligner{err: errors.New("boom")}, io.Discard); code != 3 || !strings.Contains(msg, "boom") {
		t.Fatalf("aligner error: exit %d %q", code, msg)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if code, _ := runWith(t, ctx, fakeAligner{hits: 1}, io.Discard); code != 130 {
		t.Fatalf("cancelled run exit %d", code)
	}
}

type brokenPipe struct{}

func (brokenPipe) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestRunBrokenPipeIsSuccess(t *testing.T) {
	if code, msg := runWith(t, context.Background(), fakeAligner{hits: 1}, brokenPipe{}); code != 0 {
		t.Fatalf("broken pipe exit %d: %s", code, msg)
	}
}
