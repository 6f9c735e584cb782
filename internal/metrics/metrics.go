// internal/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"cloudalign-core/engine"
)

// Outcome labels for regions; diagnostics use their engine.Reason.
const OutcomeAligned = "aligned"

// Metrics are the run counters. A nil *Metrics records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	jobs       *prometheus.CounterVec
	regions    *prometheus.CounterVec
	alignments prometheus.Counter
	cells      prometheus.Counter
	jobCells   prometheus.Histogram
	duration   prometheus.Histogram
}

// New registers the metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		jobs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cloudalign_jobs_total",
			Help: "Profile/target pairs processed by result",
		}, []string{"result"}),
		regions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cloudalign_regions_total",
			Help: "Seeded regions evaluated by outcome",
		}, []string{"outcome"}),
		alignments: f.NewCounter(prometheus.CounterOpts{
			Name: "cloudalign_alignments_total",
			Help: "Alignments reported",
		}),
		cells: f.NewCounter(prometheus.CounterOpts{
			Name: "cloudalign_dp_cells_total",
			Help: "DP cells evaluated over all passes",
		}),
		jobCells: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "cloudalign_job_dp_cells",
			Help:    "DP cells evaluated per profile/target pair",
			Buckets: prometheus.ExponentialBuckets(64, 4, 10), // 64 to ~16M
		}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "cloudalign_job_duration_seconds",
			Help:    "Profile/target pair alignment time in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 16), // 0.1ms to ~3s
		}),
	}
}

// ObserveJob records one finished AlignPair call.
func (m *Metrics) ObserveJob(res engine.Result, err error, d time.Duration) {
	if m == nil {
		return
	}
	if err != nil {
		m.jobs.WithLabelValues("error").Inc()
		return
	}
	m.jobs.WithLabelValues("ok").Inc()
	m.regions.WithLabelValues(OutcomeAligned).Add(float64(len(res.Alignments)))
	for _, diag := range res.Diagnostics {
		m.regions.WithLabelValues(string(diag.Reason)).Inc()
	}
	m.alignments.Add(float64(len(res.Alignments)))
	m.cells.Add(float64(res.Cells))
	m.jobCells.Observe(float64(res.Cells))
	m.duration.Observe(d.Seconds())
}

// WriteFile writes the text exposition format to path.
func (m *Metrics) WriteFile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.Registry)
}
