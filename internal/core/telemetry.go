package core

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run results recorded by Telemetry.
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultInvalid  = "invalid_file"
	ResultError    = "error"
)

// Telemetry holds the Prometheus collectors for cleaning runs. A nil
// *Telemetry records nothing.
type Telemetry struct {
	RunsTotal        *prometheus.CounterVec
	RunDuration      *prometheus.HistogramVec
	BytesRead        *prometheus.CounterVec
	RowsRead         prometheus.Counter
	RowsKept         prometheus.Counter
	RowsRemoved      *prometheus.CounterVec
	ActiveRuns       prometheus.Gauge
	StoredRuns       prometheus.Gauge
	RunLogWriteFails prometheus.Counter
}

// NewTelemetry registers the run collectors with reg.
func NewTelemetry(reg prometheus.Registerer) *Telemetry {
	factory := promauto.With(reg)
	return &Telemetry{
		RunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "barredora_runs_total",
				Help: "Total number of inspect and clean runs by operation and result",
			},
			[]string{"operation", "result"},
		),
		RunDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "barredora_run_duration_seconds",
				Help:    "Time spent loading and cleaning a file",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "format"},
		),
		BytesRead: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "barredora_bytes_read_total",
				Help: "Total number of bytes read from uploaded files",
			},
			[]string{"operation", "format"},
		),
		RowsRead: factory.NewCounter(prometheus.CounterOpts{
			Name: "barredora_rows_read_total",
			Help: "Total number of rows read from uploaded files before cleaning",
		}),
		RowsKept: factory.NewCounter(prometheus.CounterOpts{
			Name: "barredora_rows_kept_total",
			Help: "Total number of rows kept after cleaning",
		}),
		RowsRemoved: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "barredora_rows_removed_total",
				Help: "Total number of rows removed by cleaning step",
			},
			[]string{"step"},
		),
		ActiveRuns: factory.NewGauge(prometheus.GaugeOpts{
			Name: "barredora_active_runs",
			Help: "Number of cleaning runs holding a slot",
		}),
		StoredRuns: factory.NewGauge(prometheus.GaugeOpts{
			Name: "barredora_stored_runs",
			Help: "Number of cleaned results held for download",
		}),
		RunLogWriteFails: factory.NewCounter(prometheus.CounterOpts{
			Name: "barredora_runlog_write_failures_total",
			Help: "Total number of run log entries that could not be written",
		}),
	}
}

func (t *Telemetry) observeRun(operation, format, result string, elapsed time.Duration) {
	if t == nil {
		return
	}
	t.RunsTotal.WithLabelValues(operation, result).Inc()
	if result == ResultSuccess {
		t.RunDuration.WithLabelValues(operation, format).Observe(elapsed.Seconds())
	}
}

func (t *Telemetry) observeBytes(operation, format string, n int64) {
	if t == nil || n == 0 {
		return
	}
	t.BytesRead.WithLabelValues(operation, format).Add(float64(n))
}

func (t *Telemetry) observeClean(m Metrics) {
	if t == nil {
		return
	}
	t.RowsRead.Add(float64(m.OriginalRowCount))
	t.RowsKept.Add(float64(m.CleanedRowCount))
	t.RowsRemoved.WithLabelValues("duplicates").Add(float64(m.DuplicatesRemoved))
	t.RowsRemoved.WithLabelValues("empty").Add(float64(m.EmptyRowsRemoved))
}

func (t *Telemetry) runStarted() {
	if t != nil {
		t.ActiveRuns.Inc()
	}
}

func (t *Telemetry) runFinished() {
	if t != nil {
		t.ActiveRuns.Dec()
	}
}

func (t *Telemetry) setStoredRuns(n int) {
	if t != nil {
		t.StoredRuns.Set(float64(n))
	}
}

func (t *Telemetry) runLogFailed() {
	if t != nil {
		t.RunLogWriteFails.Inc()
	}
}
