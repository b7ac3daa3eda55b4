package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics owns a private Prometheus registry so constructing it more than
// once (tests, tools) never panics on duplicate registration.
type Metrics struct {
	Registry *prometheus.Registry

	transitions        *prometheus.CounterVec
	operationDuration  *prometheus.HistogramVec
	sideEffectFailures *prometheus.CounterVec
	cacheHits          *prometheus.CounterVec
	cacheMisses        *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		transitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dealdesk_stage_transitions_total",
				Help: "Stage transitions by kind (change, won, lost, reopen).",
			},
			[]string{"kind"},
		),
		operationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dealdesk_operation_duration_seconds",
				Help:    "Duration of opportunity service operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		sideEffectFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dealdesk_side_effect_failures_total",
				Help: "Audit and activity dispatches that failed after commit.",
			},
			[]string{"collaborator"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dealdesk_cache_hits_total",
				Help: "Cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dealdesk_cache_misses_total",
				Help: "Cache misses.",
			},
			[]string{"cache"},
		),
	}
}

func (m *Metrics) IncrTransition(kind string) {
	m.transitions.WithLabelValues(kind).Inc()
}

func (m *Metrics) RecordOperation(operation string, d time.Duration) {
	m.operationDuration.WithLabelValues(operation).Observe(d.Seconds())
}

func (m *Metrics) IncrSideEffectFailure(collaborator string) {
	m.sideEffectFailures.WithLabelValues(collaborator).Inc()
}

func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}
