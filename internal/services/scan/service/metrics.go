package service

import (
	"aspectscan/internal/core/scan"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the scan service collectors
type Metrics struct {
	// Scans counts runs by result (ok, degraded, invalid, failed)
	Scans *prometheus.CounterVec
	// Hits counts every hit found, before pagination
	Hits prometheus.Counter
	// Diagnostics counts degraded brackets and gaps by kind
	Diagnostics *prometheus.CounterVec
	// Duration measures the engine run
	Duration prometheus.Histogram
}

// NewMetrics registers the collectors on reg. A nil reg builds unregistered
// collectors, which tests use to avoid the global registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Scans: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aspectscan",
			Name:      "scans_total",
			Help:      "Scan runs by result",
		}, []string{"result"}),
		Hits: f.NewCounter(prometheus.CounterOpts{
			Namespace: "aspectscan",
			Name:      "hits_total",
			Help:      "Exact aspects found across all scans",
		}),
		Diagnostics: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aspectscan",
			Name:      "diagnostics_total",
			Help:      "Scan diagnostics by kind",
		}, []string{"kind"}),
		Duration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "aspectscan",
			Name:      "scan_seconds",
			Help:      "Engine run time in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}

// Run results
const (
	ResultOK       = "ok"
	ResultDegraded = "degraded"
	ResultInvalid  = "invalid"
	ResultFailed   = "failed"
)

func (m *Metrics) observe(res scan.Result, seconds float64) {
	m.Duration.Observe(seconds)
	m.Hits.Add(float64(res.Total))
	for kind, n := range scan.Count(res.Diagnostics) {
		m.Diagnostics.WithLabelValues(string(kind)).Add(float64(n))
	}
	if len(res.Diagnostics) > 0 {
		m.Scans.WithLabelValues(ResultDegraded).Inc()
		return
	}
	m.Scans.WithLabelValues(ResultOK).Inc()
}
