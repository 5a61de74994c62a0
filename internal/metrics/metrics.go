// Package metrics exposes Prometheus collectors for evaluations and sources.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"DiveScout/internal/model"
)

const namespace = "divescout"

// Metrics groups the collectors registered by the application.
type Metrics struct {
	registry *prometheus.Registry

	Evaluations    *prometheus.CounterVec
	SourceFailures *prometheus.CounterVec
	LastScore      prometheus.Gauge
	FactorScore    *prometheus.GaugeVec
	FetchDuration  *prometheus.HistogramVec
}

// New creates the collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Completed condition evaluations by tier.",
		}, []string{"tier"}),
		SourceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_failures_total",
			Help:      "Failed source fetches by factor.",
		}, []string{"factor"}),
		LastScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_score",
			Help:      "Most recent aggregate dive score (0-100).",
		}),
		FactorScore: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "factor_raw_score",
			Help:      "Most recent raw score per factor (0-3).",
		}, []string{"factor"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Source fetch latency by factor.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"factor"}),
	}
	m.registry.MustRegister(
		m.Evaluations, m.SourceFailures, m.LastScore, m.FactorScore, m.FetchDuration,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveReport records one finished evaluation.
func (m *Metrics) ObserveReport(r *model.Report) {
	if m == nil || r == nil || r.Result == nil {
		return
	}
	m.Evaluations.WithLabelValues(string(r.Result.Tier)).Inc()
	m.LastScore.Set(float64(r.Result.TotalScore))
	for _, f := range r.Result.Factors {
		m.FactorScore.WithLabelValues(string(f.Name)).Set(f.RawScore)
	}
}

// SourceFailed counts a failed fetch for factor.
func (m *Metrics) SourceFailed(factor model.FactorName) {
	if m == nil {
		return
	}
	m.SourceFailures.WithLabelValues(string(factor)).Inc()
}

// ObserveFetch records how long a fetch for factor took, in seconds.
func (m *Metrics) ObserveFetch(factor model.FactorName, seconds float64) {
	if m == nil {
		return
	}
	m.FetchDuration.WithLabelValues(string(factor)).Observe(seconds)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
