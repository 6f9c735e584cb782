package cliutil

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSplitFlagsAndPositionals(t *testing.T) {
	fs := flag.NewFlagSet("x", flag.ContinueOnError)
	var b bool
	var s string
	fs.BoolVar(&b, "sort", false, "")
	fs.StringVar(&s, "hmm", "", "")
	flagArgs, posArgs := SplitFlagsAndPositionals(fs, []string{
		"a.fa", "--sort", "--hmm", "p.hmm", "-", "--output=json", "--", "--odd.fa",
	})
	if strings.Join(flagArgs, " ") != "--sort --hmm p.hmm --output=json" {
		t.Fatalf("flags %v", flagArgs)
	}
	if strings.Join(posArgs, " ") != "a.fa - --odd.fa" {
		t.Fatalf("positionals %v", posArgs)
	}
}

func TestExpandPositionals(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.fa")
	b := filepath.Join(dir, "b.fa")
	_ = os.WriteFile(a, []byte(">a\nA\n"), 0o644)
	_ = os.WriteFile(b, []byte(">b\nA\n"), 0o644)
	got, err := ExpandPositionals([]string{b, filepath.Join(dir, "*.fa")})
	if err != nil || len(got) != 2 || got[0] != b || got[1] != a {
		t.Fatalf("expand: err=%v got=%v", err, got)
	}
	if _, err := ExpandPositionals([]string{filepath.Join(dir, "*.gz")}); err == nil {
		t.Fatalf("empty glob should fail")
	}
	if _, err := ExpandPositionals([]string{"-", "-"}); err == nil {
		t.Fatalf("stdin twice should fail")
	}
}
