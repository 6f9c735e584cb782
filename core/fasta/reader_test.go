package fasta

import (
	"compress/gzip"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const plain = `>sp|P1 first protein
MKVLA
GHEWC
>sp|P2
mkv
`

// writeGz creates a gzipped FASTA file with provided data, returns the file path.
func writeGz(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "targets.fa.gz")
	fh, err := os.Create(path)
	if err != nil {
		t.Fatalf("tmp: %v", err)
	}
	gw := gzip.NewWriter(fh)
	if _, err := gw.Write([]byte(data)); err != nil {
		t.Fatalf("write gz: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("close gzip: %v", err)
	}
	if err := fh.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}
	return path
}

func TestReadGzip(t *testing.T) {
	var recs []Record
	err := ReadPath(context.Background(), writeGz(t, plain), func(r Record) error {
		recs = append(recs, r)
		return nil
	})
	if err != nil {
		t.Fatalf("load gz: %v", err)
	}
	if len(recs) != 2 || recs[0].ID != "sp|P1" || recs[1].ID != "sp|P2" {
		t.Fatalf("gzip parse failed, recs=%+v", recs)
	}
	if string(recs[0].Seq) != "MKVLAGHEWC" || string(recs[1].Seq) != "mkv" {
		t.Fatalf("sequences %q %q", recs[0].Seq, recs[1].Seq)
	}
}

func TestReadStdin(t *testing.T) {
	orig := os.Stdin
	r, w, _ := os.Pipe()
	os.Stdin = r
	defer func() { os.Stdin = orig }()

	go func() {
		_, _ = io.WriteString(w, plain)
		_ = w.Close()
	}()

	count := 0
	err := ReadPath(context.Background(), "-", func(Record) error {
		count++
		return nil
	})
	if err != nil || count != 2 {
		t.Fatalf("expected 2 records from stdin, got %d (%v)", count, err)
	}
}

func TestScanErrorsCarryLine(t *testing.T) {
	err := Scan(context.Background(), strings.NewReader("\nMKV\n>a\n"), "in.fa", func(Record) error { return nil })
	if err == nil || !strings.Contains(err.Error(), "in.fa:2:") {
		t.Fatalf("want in.fa:2 error, got %v", err)
	}
	err = Scan(context.Background(), strings.NewReader(">a\nMK\n>\nV\n"), "in.fa", func(Record) error { return nil })
	if err == nil || !strings.Contains(err.Error(), "in.fa:3:") {
		t.Fatalf("want in.fa:3 error, got %v", err)
	}
}

func TestStreamCancelled(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "x.fa")
	if err := os.WriteFile(fn, []byte(">s\nMKV\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	recs, errc := Stream(ctx, []string{fn})
	n := 0
	for range recs {
		n++
	}
	if err := <-errc; !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 records due to immediate cancel, got %d", n)
	}
}

func TestStreamMissingFile(t *testing.T) {
	recs, errc := Stream(context.Background(), []string{filepath.Join(t.TempDir(), "nope.fa")})
	for range recs {
	}
	if err := <-errc; !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("want not-exist error, got %v", err)
	}
}
