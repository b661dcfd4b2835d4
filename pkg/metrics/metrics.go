// Package metrics exposes Prometheus collectors for module extraction and
// inferred-axiom consolidation.
//
// Every method is safe to call on a nil *Metrics, so library code records
// unconditionally and callers opt in by passing a non-nil value.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ontomod"

// Metrics holds the collectors and the registry they are registered with.
type Metrics struct {
	registry *prometheus.Registry

	closureSize        *prometheus.HistogramVec
	extractions        *prometheus.CounterVec
	moduleAxioms       prometheus.Histogram
	consolidationSteps *prometheus.CounterVec
	reasonerQueries    *prometheus.HistogramVec
	unsupported        *prometheus.CounterVec
	stageDuration      *prometheus.HistogramVec
}

// New creates collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.closureSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "extraction",
			Name:      "closure_entities",
			Help:      "Entities in a related-component closure",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
		[]string{"entity_kind"},
	)
	m.extractions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "extraction",
			Name:      "modules_total",
			Help:      "Module extractions by outcome",
		},
		[]string{"status"},
	)
	m.moduleAxioms = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "extraction",
			Name:      "module_axioms",
			Help:      "Axioms in an extracted module",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		},
	)
	m.consolidationSteps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "inference",
			Name:      "axioms_total",
			Help:      "Candidate axioms handled per consolidation step",
		},
		[]string{"step"},
	)
	m.reasonerQueries = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "reasoner",
			Name:      "query_duration_seconds",
			Help:      "Reasoner query latency",
			Buckets:   []float64{0.0001, 0.001, 0.01, 0.1, 0.5, 1, 5, 30},
		},
		[]string{"reasoner", "query"},
	)
	m.unsupported = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reasoner",
			Name:      "unsupported_capabilities_total",
			Help:      "Requested inference kinds the reasoner could not serve",
		},
		[]string{"reasoner", "capability"},
	)
	m.stageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Wall time of pipeline stages",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	m.registry.MustRegister(
		m.closureSize, m.extractions, m.moduleAxioms, m.consolidationSteps,
		m.reasonerQueries, m.unsupported, m.stageDuration,
	)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveClosure records the size of a related-component closure.
func (m *Metrics) ObserveClosure(entityKind string, entities int) {
	if m == nil {
		return
	}
	m.closureSize.WithLabelValues(entityKind).Observe(float64(entities))
}

// ObserveModule records an extraction outcome and, on success, the module size.
func (m *Metrics) ObserveModule(axioms int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.extractions.WithLabelValues("error").Inc()
		return
	}
	m.extractions.WithLabelValues("ok").Inc()
	m.moduleAxioms.Observe(float64(axioms))
}

// AddStep counts axioms handled by a consolidation step such as "dedup".
func (m *Metrics) AddStep(step string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.consolidationSteps.WithLabelValues(step).Add(float64(n))
}

// ObserveQuery records the latency of one reasoner query.
func (m *Metrics) ObserveQuery(reasoner, query string, d time.Duration) {
	if m == nil {
		return
	}
	m.reasonerQueries.WithLabelValues(reasoner, query).Observe(d.Seconds())
}

// IncUnsupported counts a capability the reasoner lacks.
func (m *Metrics) IncUnsupported(reasoner, capability string) {
	if m == nil {
		return
	}
	m.unsupported.WithLabelValues(reasoner, capability).Inc()
}

// ObserveStage records the wall time of a named stage.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// WriteTextfile writes every collector in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
