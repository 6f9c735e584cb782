package dp

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"cloudalign-core/band"
	"cloudalign-core/internal/testprof"
	"cloudalign-core/profile"
	"cloudalign-core/seq"
)

func problem(t *testing.T, cons, target string, s band.Seed, tol int, mode profile.Mode, tr [profile.NTrans]float64) Problem {
	t.Helper()
	p := testprof.New(cons, tr, mode)
	x, err := seq.New("t", []byte(target))
	if err != nil {
		t.Fatal(err)
	}
	rs := band.Build([]band.Seed{s}, p.Len(), x.Len(), band.Params{Tolerance: tol})
	if len(rs) != 1 {
		t.Fatalf("want 1 region, got %d", len(rs))
	}
	return Problem{Profile: p, Target: x, Rows: band.NewRows(rs[0]), Special: profile.SpecialFor(x.Len())}
}

func gapped(t *testing.T) Problem {
	return problem(t, "MKVLAGHEWC", "PPPPPGGMKVLAHEWCGGPPPPP",
		band.Seed{QueryStart: 2, QueryEnd: 9, TargetStart: 9, TargetEnd: 16}, 2, profile.Local, testprof.Gapped)
}

func TestForwardBackwardAgree(t *testing.T) {
	pr := gapped(t)
	ws := NewWorkspace()
	f, err := ws.Forward(context.Background(), pr)
	if err != nil {
		t.Fatalf("forward: %v", err)
	}
	b, err := ws.Backward(context.Background(), pr)
	if err != nil {
		t.Fatalf("backward: %v", err)
	}
	if math.Abs(f.Total-b.Total) > 1e-9 {
		t.Fatalf("forward %f != backward %f", f.Total, b.Total)
	}
	if math.Abs(f.Total-9.254944212094) > 1e-6 {
		t.Fatalf("forward total %f drifted", f.Total)
	}
}

func TestForwardAtLeastViterbi(t *testing.T) {
	for _, pr := range []Problem{gapped(t), func() Problem {
		p := gapped(t)
		p.Special = profile.FreeFlanks()
		return p
	}()} {
		ws := NewWorkspace()
		f, err := ws.Forward(context.Background(), pr)
		if err != nil {
			t.Fatal(err)
		}
		v, err := ws.Viterbi(context.Background(), pr)
		if err != nil {
			t.Fatal(err)
		}
		if v.Total > f.Total+1e-12 {
			t.Fatalf("viterbi %f exceeds forward %f", v.Total, f.Total)
		}
		if f.Total-v.Total < 1e-3 {
			t.Fatalf("gapped profile should have several likely paths: F=%f V=%f", f.Total, v.Total)
		}
	}
}

// A single admissible path scores the same under Forward and Viterbi.
func TestSinglePathEquality(t *testing.T) {
	pr := problem(t, "MKVLAGHEWC", "MKVLAGHEWC",
		band.Seed{QueryStart: 1, QueryEnd: 10, TargetStart: 1, TargetEnd: 10}, 0, profile.Glocal, testprof.Rigid)
	pr.Special = profile.FreeFlanks()
	ws := NewWorkspace()
	f, err := ws.Forward(context.Background(), pr)
	if err != nil {
		t.Fatal(err)
	}
	v, err := ws.Viterbi(context.Background(), pr)
	if err != nil {
		t.Fatal(err)
	}
	want := 0.0
	for k := 1; k <= 10; k++ {
		want += pr.Profile.Match(k, pr.Target.At(k))
	}
	if math.Abs(f.Total-want) > 1e-9 || math.Abs(v.Total-want) > 1e-9 {
		t.Fatalf("F=%f V=%f want %f", f.Total, v.Total, want)
	}
}

func TestContainment(t *testing.T) {
	pr := gapped(t)
	ws := NewWorkspace()
	visited := 0
	ws.visit = func(i, j int) {
		visited++
		if !pr.Rows.Contains(i, j) {
			t.Fatalf("visited (%d,%d) outside region %+v", i, j, pr.Rows.Region)
		}
	}
	ctx := context.Background()
	if _, err := ws.Forward(ctx, pr); err != nil {
		t.Fatal(err)
	}
	if _, err := ws.Backward(ctx, pr); err != nil {
		t.Fatal(err)
	}
	if _, err := ws.Viterbi(ctx, pr); err != nil {
		t.Fatal(err)
	}
	if visited != 3*pr.Rows.Total() {
		t.Fatalf("visited %d cells, want %d", visited, 3*pr.Rows.Total())
	}
	if ws.Cells() != int64(visited) {
		t.Fatalf("cell counter %d != %d", ws.Cells(), visited)
	}
}

func TestBudgetExceeded(t *testing.T) {
	pr := gapped(t)
	pr.MaxCells = pr.Rows.Total() - 1
	_, err := NewWorkspace().Forward(context.Background(), pr)
	if !errors.Is(err, ErrBudgetExceeded) {
		t.Fatalf("want ErrBudgetExceeded, got %v", err)
	}
	pr.MaxCells = pr.Rows.Total()
	if _, err := NewWorkspace().Forward(context.Background(), pr); err != nil {
		t.Fatalf("budget equal to region size should pass: %v", err)
	}
}

func TestOversizedRegionAllocatesNothing(t *testing.T) {
	cons := strings.Repeat("MKVLAGHEWC", 30)
	target := strings.Repeat("PGGMKVLAHEWCPP", 200)
	pr := problem(t, cons, target,
		band.Seed{QueryStart: 1, QueryEnd: 300, TargetStart: 1, TargetEnd: 300}, len(target), profile.Local, testprof.Gapped)
	pr.MaxCells = 100
	if pr.Rows.Total() < 100000 {
		t.Fatalf("region too small for this test: %d cells", pr.Rows.Total())
	}

	ws := NewWorkspace()
	passes := map[string]func(context.Context, Problem) (*Matrix, error){
		"forward":  ws.Forward,
		"backward": ws.Backward,
		"viterbi":  ws.Viterbi,
	}
	for name, pass := range passes {
		if _, err := pass(context.Background(), pr); !errors.Is(err, ErrBudgetExceeded) {
			t.Fatalf("%s: want ErrBudgetExceeded, got %v", name, err)
		}
	}
	for name, mx := range map[string]*Matrix{"forward": &ws.fwd, "backward": &ws.bwd, "viterbi": &ws.vit} {
		if cap(mx.M) != 0 || cap(mx.I) != 0 || cap(mx.D) != 0 {
			t.Fatalf("%s buffers sized for a rejected region: %d cells", name, cap(mx.M))
		}
	}
	if ws.Cells() != 0 {
		t.Fatalf("rejected region charged %d cells", ws.Cells())
	}
}

func TestNoPath(t *testing.T) {
	// glocal entry is only at node 1, which lies outside the region
	pr := problem(t, "MKVLAGHEWC", "MKVLAGHEWC",
		band.Seed{QueryStart: 5, QueryEnd: 10, TargetStart: 5, TargetEnd: 10}, 0, profile.Glocal, testprof.Rigid)
	mx, err := NewWorkspace().Forward(context.Background(), pr)
	if !errors.Is(err, ErrNoPath) {
		t.Fatalf("want ErrNoPath, got %v", err)
	}
	if !math.IsInf(mx.Total, -1) {
		t.Fatalf("total should be -Inf, got %f", mx.Total)
	}
}

func TestCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewWorkspace().Viterbi(ctx, gapped(t)); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestWorkspaceReuse(t *testing.T) {
	ws := NewWorkspace()
	big := gapped(t)
	small := problem(t, "MKV", "AMKVA",
		band.Seed{QueryStart: 1, QueryEnd: 3, TargetStart: 2, TargetEnd: 4}, 1, profile.Local, testprof.Gapped)
	ctx := context.Background()
	first, err := NewWorkspace().Forward(ctx, small)
	if err != nil {
		t.Fatal(err)
	}
	want := first.Total
	if _, err := ws.Forward(ctx, big); err != nil {
		t.Fatal(err)
	}
	got, err := ws.Forward(ctx, small)
	if err != nil {
		t.Fatal(err)
	}
	if got.Total != want {
		t.Fatalf("reused workspace changed result: %f vs %f", got.Total, want)
	}
}

func TestCellOutsideIsNegInf(t *testing.T) {
	pr := gapped(t)
	mx, err := NewWorkspace().Forward(context.Background(), pr)
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsInf(mx.Cell(Match, 1, 1), -1) || !math.IsInf(mx.Flank(C, 0), -1) {
		t.Fatalf("out-of-region reads must be -Inf")
	}
	if Match.String() != "M" || Insert.String() != "I" || Delete.String() != "D" {
		t.Fatalf("state names")
	}
}
