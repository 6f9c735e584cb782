// internal/integration/integration_test.go
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cloudalign/internal/app"
	"cloudalign/internal/output"
	"cloudalign/pkg/api"
)

const (
	hmm     = "../../testdata/demo.hmm"
	targets = "../../testdata/targets.fa"
	seedTSV = "../../testdata/seeds.tsv"
)

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var out, errBuf bytes.Buffer
	code := app.Run(args, &out, &errBuf)
	return code, out.String(), errBuf.String()
}

func TestEndToEndTSV(t *testing.T) {
	code, out, errs := run(t, "--hmm", hmm, "--seeds", seedTSV, "--sort", targets)
	if code != 0 {
		t.Fatalf("exit %d, stderr=%s", code, errs)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 || lines[0] != output.TSVHeader {
		t.Fatalf("unexpected output:\n%s", out)
	}
	got := map[string]string{}
	for _, ln := range lines[1:] {
		f := strings.Split(ln, "\t")
		got[f[0]] = f[1]
	}
	if got["tgt1"] != "demo" || got["tgt2"] != "zinc" {
		t.Fatalf("hits %v", got)
	}
}

func TestEndToEndJSON(t *testing.T) {
	code, out, errs := run(t, "-m", hmm, "-s", "../../testdata/seeds.json", "-t", targets, "-o", "json", "--sort")
	if code != 0 {
		t.Fatalf("exit %d, stderr=%s", code, errs)
	}
	var list []api.AlignmentV1
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("bad JSON: %v\n%s", err, out)
	}
	if len(list) != 2 {
		t.Fatalf("want 2 alignments, got %d", len(list))
	}
	for _, a := range list {
		if a.Bits <= 0 || a.EValue > 10 || a.Cigar == "" || len(a.Pairs) != len(a.States) {
			t.Fatalf("implausible alignment %+v", a)
		}
		if a.RegionSeeds != 1 {
			t.Fatalf("region seeds %d", a.RegionSeeds)
		}
	}
	if list[0].Bits < list[1].Bits {
		t.Fatalf("not sorted by score")
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	runT := func(threads string) string {
		code, out, errs := run(t, "--hmm", hmm, "--seeds", seedTSV, "--targets", targets,
			"--threads", threads, "--sort", "--output", "jsonl")
		if code != 0 {
			t.Fatalf("threads=%s exit %d: %s", threads, code, errs)
		}
		return out
	}
	serial := runT("1")
	for _, n := range []string{"2", "4"} {
		if par := runT(n); par != serial {
			t.Fatalf("threads=%s output differs:\n%s\nvs\n%s", n, par, serial)
		}
	}
}

func TestPosteriorMode(t *testing.T) {
	code, out, errs := run(t, "--hmm", hmm, "--seeds", seedTSV, "--mode", "posterior", "--no-header", "--sort", targets)
	if code != 0 {
		t.Fatalf("exit %d, stderr=%s", code, errs)
	}
	for _, want := range []string{"tgt1\tdemo\t", "tgt2\tzinc\t"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestPrettyOutput(t *testing.T) {
	code, out, errs := run(t, "--hmm", hmm, "--seeds", seedTSV, "--pretty", "--sort", targets)
	if code != 0 {
		t.Fatalf("exit %d, stderr=%s", code, errs)
	}
	if !strings.Contains(out, "# == demo vs tgt1") || !strings.Contains(out, "# == zinc vs tgt2") {
		t.Fatalf("pretty blocks missing:\n%s", out)
	}
}

func TestNoMatchExitCode(t *testing.T) {
	code, out, errs := run(t, "--hmm", hmm, "--seeds", seedTSV, "--min-score", "1000", "--no-match-exit-code", "7", targets)
	if code != 7 {
		t.Fatalf("want exit 7, got %d (stderr=%s)", code, errs)
	}
	if strings.TrimSpace(out) != output.TSVHeader {
		t.Fatalf("want header only, got:\n%s", out)
	}
}

func TestMaxDomains(t *testing.T) {
	code, out, errs := run(t, "--hmm", hmm, "--seeds", seedTSV, "--max-domains", "1", "--no-header", "--sort", targets)
	if code != 0 {
		t.Fatalf("exit %d, stderr=%s", code, errs)
	}
	if n := strings.Count(out, "\n"); n != 2 {
		t.Fatalf("want 2 rows, got %d", n)
	}
}

func TestOutOfRangeSeedDoesNotStopRun(t *testing.T) {
	good, err := os.ReadFile(seedTSV)
	if err != nil {
		t.Fatal(err)
	}
	fn := filepath.Join(t.TempDir(), "seeds.tsv")
	data := append([]byte("demo\ttgt1\t0\t4\t200\t204\t1e-3\n"), good...)
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		t.Fatal(err)
	}
	code, out, errs := run(t, "--hmm", hmm, "--seeds", fn, "--no-header", "--sort", targets)
	if code != 0 {
		t.Fatalf("exit %d, stderr=%s", code, errs)
	}
	for _, want := range []string{"tgt1\tdemo\t", "tgt2\tzinc\t"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestMetricsAndTraceFiles(t *testing.T) {
	dir := t.TempDir()
	mf := filepath.Join(dir, "run.prom")
	tf := filepath.Join(dir, "spans.json")
	code, _, errs := run(t, "--hmm", hmm, "--seeds", seedTSV, "--metrics-file", mf, "--trace-file", tf, targets)
	if code != 0 {
		t.Fatalf("exit %d, stderr=%s", code, errs)
	}
	prom, err := os.ReadFile(mf)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`cloudalign_jobs_total{result="ok"} 3`, "cloudalign_alignments_total 2"} {
		if !strings.Contains(string(prom), want) {
			t.Fatalf("metrics lack %q:\n%s", want, prom)
		}
	}
	spans, err := os.ReadFile(tf)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(spans), `"Name":"engine.AlignPair"`); n != 3 {
		t.Fatalf("want 3 spans, got %d", n)
	}
}

func TestUsageErrors(t *testing.T) {
	cases := [][]string{
		{"--seeds", seedTSV, targets},
		{"--hmm", hmm, targets},
		{"--hmm", hmm, "--seeds", seedTSV, "--mode", "greedy", targets},
		{"--hmm", hmm, "--seeds", seedTSV, "--bogus", targets},
	}
	for _, args := range cases {
		if code, _, _ := run(t, args...); code != 2 {
			t.Fatalf("%v: want exit 2, got %d", args, code)
		}
	}
}

func TestMissingInputs(t *testing.T) {
	if code, _, errs := run(t, "--hmm", "nope.hmm", "--seeds", seedTSV, targets); code != 2 || errs == "" {
		t.Fatalf("missing hmm: exit %d", code)
	}
	if code, _, _ := run(t, "--hmm", hmm, "--seeds", seedTSV, "missing.fa"); code != 2 {
		t.Fatalf("missing target file: exit %d", code)
	}
}

func TestHelpAndVersion(t *testing.T) {
	code, out, _ := run(t, "-h")
	if code != 0 || !strings.Contains(out, "Usage:") {
		t.Fatalf("help: exit %d\n%s", code, out)
	}
	code, out, _ = run(t, "--version")
	if code != 0 || !strings.HasPrefix(out, "cloudalign version ") {
		t.Fatalf("version: exit %d %q", code, out)
	}
	code, out, _ = run(t, "--examples")
	if code != 0 || !strings.Contains(out, "cloudalign --hmm") {
		t.Fatalf("examples: exit %d\n%s", code, out)
	}
}

func TestCancelledRunExits130(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	code := app.RunContext(ctx, []string{"--hmm", hmm, "--seeds", seedTSV, targets}, io.Discard, io.Discard)
	if code != 130 {
		t.Fatalf("want 130, got %d", code)
	}
}

type closedStdout struct{}

func (closedStdout) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestClosedStdoutKeepsExitCode(t *testing.T) {
	ctx := context.Background()
	if code := app.RunContext(ctx, []string{"-h"}, closedStdout{}, io.Discard); code != 0 {
		t.Fatalf("help on closed stdout: exit %d", code)
	}
	if code := app.RunContext(ctx, []string{"--bogus"}, closedStdout{}, io.Discard); code != 2 {
		t.Fatalf("usage error on closed stdout: exit %d", code)
	}
	if code := app.RunContext(ctx, []string{"--hmm", hmm, "--seeds", seedTSV, targets}, closedStdout{}, io.Discard); code != 0 {
		t.Fatalf("run on closed stdout: exit %d", code)
	}
}
