// Package metrics exposes prometheus collectors for the analysis pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/redmonkez12/sentiment-api/internal/sentiment"
)

const namespace = "sentiment"

// Scorer failure reasons
const (
	ReasonUnavailable = "unavailable"
	ReasonProtocol    = "protocol"
	ReasonOther       = "other"
)

// Metrics holds the pipeline collectors and the registry they are registered in.
// All methods are safe to call on a nil *Metrics.
type Metrics struct {
	registry *prometheus.Registry

	analyses       *prometheus.CounterVec
	scorerFailures *prometheus.CounterVec
	scorerDuration prometheus.Histogram
	ledgerFailures prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		analyses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Completed analyses by resulting sentiment.",
		}, []string{"sentiment"}),
		scorerFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scorer_failures_total",
			Help:      "Scorer invocations that produced no usable result.",
		}, []string{"reason"}),
		scorerDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scorer_duration_seconds",
			Help:      "Wall time of scorer invocations.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}),
		ledgerFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_write_failures_total",
			Help:      "Scored analyses that could not be recorded.",
		}),
	}
}

// Registry returns the registry holding the collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveAnalysis(s sentiment.Sentiment) {
	if m == nil {
		return
	}
	m.analyses.WithLabelValues(string(s)).Inc()
}

func (m *Metrics) ObserveScorerDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.scorerDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveScorerFailure(reason string) {
	if m == nil {
		return
	}
	m.scorerFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveLedgerWriteFailure() {
	if m == nil {
		return
	}
	m.ledgerFailures.Inc()
}
