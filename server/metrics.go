package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	evaluationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bylaw_evaluations_total",
		Help: "Total evaluation requests by outcome",
	}, []string{"outcome"})
	evaluationDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "bylaw_evaluation_duration_ms",
		Help:    "Evaluation request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	})
	cacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bylaw_cache_hits_total",
		Help: "Total result cache hits",
	})
	cacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bylaw_cache_misses_total",
		Help: "Total result cache misses",
	})
	violationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bylaw_violations_total",
		Help: "Total evaluations that reported at least one violation",
	})
)

func init() {
	prometheus.MustRegister(evaluationsTotal)
	prometheus.MustRegister(evaluationDurationMs)
	prometheus.MustRegister(cacheHitsTotal)
	prometheus.MustRegister(cacheMissesTotal)
	prometheus.MustRegister(violationsTotal)
}
