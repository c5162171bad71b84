package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for cleaning runs.
type Metrics struct {
	Runs        prometheus.Counter
	RunFailures prometheus.Counter
	RowsIn      prometheus.Counter
	RowsOut     prometheus.Counter

	StepDuration *prometheus.HistogramVec // labels: step
	RowsDropped  *prometheus.CounterVec   // labels: step
	GapRows      *prometheus.CounterVec   // labels: column, reason
}

func newMetrics() *Metrics {
	return &Metrics{
		Runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lfbclean",
			Name:      "runs_total",
			Help:      "Total pipeline runs started.",
		}),
		RunFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lfbclean",
			Name:      "run_failures_total",
			Help:      "Total pipeline runs aborted by an error.",
		}),
		RowsIn: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lfbclean",
			Name:      "rows_in_total",
			Help:      "Incident rows handed to the pipeline.",
		}),
		RowsOut: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lfbclean",
			Name:      "rows_out_total",
			Help:      "Incident rows in finalized tables.",
		}),
		StepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lfbclean",
			Name:      "step_duration_seconds",
			Help:      "Duration of a single pipeline step.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"step"}),
		RowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lfbclean",
			Name:      "rows_dropped_total",
			Help:      "Rows removed by a pipeline step.",
		}, []string{"step"}),
		GapRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lfbclean",
			Name:      "gap_rows_total",
			Help:      "Rows left missing after imputation or ranking.",
		}, []string{"column", "reason"}),
	}
}

// NewMetrics creates the pipeline metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := newMetrics()
	reg.MustRegister(
		m.Runs,
		m.RunFailures,
		m.RowsIn,
		m.RowsOut,
		m.StepDuration,
		m.RowsDropped,
		m.GapRows,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
