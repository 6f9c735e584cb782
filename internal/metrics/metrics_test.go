package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"cloudalign-core/align"
	"cloudalign-core/engine"
)

func TestObserveJob(t *testing.T) {
	m := New()
	m.ObserveJob(engine.Result{
		Alignments: []*align.Alignment{{}, {}},
		Diagnostics: []engine.Diagnostic{
			{Reason: engine.ReasonBudget},
			{Reason: engine.ReasonBelowThreshold},
			{Reason: engine.ReasonBelowThreshold},
		},
		Cells: 1200,
	}, nil, 3*time.Millisecond)
	m.ObserveJob(engine.Result{}, errors.New("boom"), 0)

	if got := testutil.ToFloat64(m.jobs.WithLabelValues("ok")); got != 1 {
		t.Fatalf("ok jobs = %v", got)
	}
	if got := testutil.ToFloat64(m.jobs.WithLabelValues("error")); got != 1 {
		t.Fatalf("error jobs = %v", got)
	}
	if got := testutil.ToFloat64(m.regions.WithLabelValues("below-threshold")); got != 2 {
		t.Fatalf("below-threshold regions = %v", got)
	}
	if got := testutil.ToFloat64(m.regions.WithLabelValues(OutcomeAligned)); got != 2 {
		t.Fatalf("aligned regions = %v", got)
	}
	if got := testutil.ToFloat64(m.cells); got != 1200 {
		t.Fatalf("cells = %v", got)
	}
	if n := testutil.CollectAndCount(m.jobCells); n != 1 {
		t.Fatalf("histogram series = %d", n)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveJob(engine.Result{Cells: 5}, nil, time.Second)
	if err := m.WriteFile(filepath.Join(t.TempDir(), "x.prom")); err != nil {
		t.Fatal(err)
	}
}

func TestWriteFile(t *testing.T) {
	m := New()
	m.ObserveJob(engine.Result{Alignments: []*align.Alignment{{}}}, nil, time.Millisecond)
	fn := filepath.Join(t.TempDir(), "run.prom")
	if err := m.WriteFile(fn); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(fn)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "cloudalign_alignments_total 1") {
		t.Fatalf("exposition missing counter:\n%s", data)
	}
}
