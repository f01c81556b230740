package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder records pipeline metrics using Prometheus.
// Each Recorder owns its registry so tests can create as many as they like.
type Recorder struct {
	registry    *prometheus.Registry
	runsTotal   *prometheus.CounterVec
	runDuration *prometheus.HistogramVec
	inflight    prometheus.Gauge
	ingestLines *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	reg := prometheus.NewRegistry()

	r := &Recorder{
		registry: reg,
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riskdash_runs_total",
				Help: "Total number of simulation runs by model and outcome",
			},
			[]string{"model", "outcome"},
		),
		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "riskdash_run_duration_seconds",
				Help:    "Duration of simulation runs including the engine round trip",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
			},
			[]string{"model"},
		),
		inflight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "riskdash_runs_inflight",
				Help: "Number of simulation runs awaiting the engine",
			},
		),
		ingestLines: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riskdash_ingest_lines_total",
				Help: "Price file lines ingested by status",
			},
			[]string{"status"},
		),
	}

	reg.MustRegister(r.runsTotal, r.runDuration, r.inflight, r.ingestLines)
	return r
}

// RunStarted increments the in-flight gauge.
func (r *Recorder) RunStarted() {
	r.inflight.Inc()
}

// RunFinished records a completed run. outcome is "ok", "unknown_model" or "error".
func (r *Recorder) RunFinished(model, outcome string, seconds float64) {
	r.inflight.Dec()
	r.runsTotal.WithLabelValues(model, outcome).Inc()
	r.runDuration.WithLabelValues(model).Observe(seconds)
}

// RecordIngest records valid and skipped line counts of one price file.
func (r *Recorder) RecordIngest(valid, skipped int) {
	r.ingestLines.WithLabelValues("valid").Add(float64(valid))
	r.ingestLines.WithLabelValues("skipped").Add(float64(skipped))
}

// Handler exposes the registry in Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
