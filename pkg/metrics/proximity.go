package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ProximityMetrics records nearby-store query behaviour.
type ProximityMetrics struct {
	duration *prometheus.HistogramVec
	results  *prometheus.HistogramVec
	failure  *prometheus.CounterVec
}

// NewProximityMetrics registers the proximity metrics on the provided registerer.
func NewProximityMetrics(reg prometheus.Registerer) *ProximityMetrics {
	if reg == nil {
		return &ProximityMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "proximity_query_duration_seconds",
		Help:    "Duration of nearby-store queries in seconds.",
		Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	}, []string{"scope", "strategy"})
	results := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "proximity_query_results",
		Help:    "Number of stores returned by nearby-store queries.",
		Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 250, 1000},
	}, []string{"scope", "strategy"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "proximity_query_failures_total",
		Help: "Nearby-store queries that failed in storage.",
	}, []string{"scope", "strategy"})
	reg.MustRegister(duration, results, failure)
	return &ProximityMetrics{
		duration: duration,
		results:  results,
		failure:  failure,
	}
}

// ObserveQuery records a completed query.
func (p *ProximityMetrics) ObserveQuery(scope, strategy string, elapsed time.Duration, matches int) {
	if p == nil || p.duration == nil {
		return
	}
	scope, strategy = normalizeLabel(scope), normalizeLabel(strategy)
	p.duration.WithLabelValues(scope, strategy).Observe(elapsed.Seconds())
	p.results.WithLabelValues(scope, strategy).Observe(float64(matches))
}

// IncFailure counts a query that failed in storage.
func (p *ProximityMetrics) IncFailure(scope, strategy string) {
	if p == nil || p.failure == nil {
		return
	}
	p.failure.WithLabelValues(normalizeLabel(scope), normalizeLabel(strategy)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
