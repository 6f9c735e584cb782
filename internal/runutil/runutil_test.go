package runutil

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestEffectiveThreads(t *testing.T) {
	if got := EffectiveThreads(3); got != 3 {
		t.Fatalf("want 3, got %d", got)
	}
	if got := EffectiveThreads(0); got != runtime.NumCPU() {
		t.Fatalf("0 means all CPUs, got %d", got)
	}
}

func TestResolveDBSize(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	a := filepath.Join(dir, "a.fa")
	b := filepath.Join(dir, "b.fa")
	if err := os.WriteFile(a, []byte(">x\nMKV\n>y\nMKV\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte(">z\nMKV\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if n, warns, err := ResolveDBSize(ctx, 500, []string{a}, 1); err != nil || n != 500 || len(warns) != 0 {
		t.Fatalf("configured size: %v %v %v", n, warns, err)
	}
	if n, _, err := ResolveDBSize(ctx, 0, []string{a, b}, 1); err != nil || n != 3 {
		t.Fatalf("counted size: %v %v", n, err)
	}
	if n, warns, err := ResolveDBSize(ctx, 0, []string{a, "-"}, 2); err != nil || n != 2 || len(warns) != 1 {
		t.Fatalf("stdin fallback: %v %v %v", n, warns, err)
	}
	if _, _, err := ResolveDBSize(ctx, 0, []string{filepath.Join(dir, "missing.fa")}, 1); err == nil {
		t.Fatalf("missing file should fail")
	}
}
