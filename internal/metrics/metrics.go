// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecommendStages counts pipeline stage transitions.
	// Labels: stage (advanced, broaden, simple), event (start, end), outcome (ok, error)
	RecommendStages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamerec_recommend_stage_total",
			Help: "Recommendation stage transitions",
		},
		[]string{"stage", "event", "outcome"},
	)

	RecommendResultSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gamerec_recommend_result_size",
			Help:    "Number of games returned per recommendation request",
			Buckets: []float64{0, 1, 2, 3, 4, 5, 6},
		},
	)

	CatalogCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gamerec_catalog_call_duration_seconds",
			Help:    "Catalog call latency",
			Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"op"},
	)

	CatalogCallErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamerec_catalog_call_errors_total",
			Help: "Failed catalog calls",
		},
		[]string{"op"},
	)

	// CircuitBreakerState: 0=closed, 1=half-open, 2=open (gobreaker ordering).
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gamerec_circuit_breaker_state",
			Help: "Catalog circuit breaker state",
		},
		[]string{"name"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamerec_cache_lookups_total",
			Help: "Redis cache lookups",
		},
		[]string{"kind", "result"},
	)

	ModelBuilds = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gamerec_genre_model_builds_total",
			Help: "Genre graph model rebuilds",
		},
	)

	ModelGenres = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gamerec_genre_model_genres",
			Help: "Genres in the current genre graph model",
		},
	)
)
