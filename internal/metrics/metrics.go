// Package metrics exposes Prometheus instrumentation for the lookup race
// and cache.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "goregion_cache_hits_total",
		Help: "Total lookup requests served from the durable cache",
	})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "goregion_cache_misses_total",
		Help: "Total lookup requests that fell through to the race",
	})
	SourceAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "goregion_source_attempts_total",
		Help: "Total fetch attempts per source",
	}, []string{"source"})
	SourceWinsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "goregion_source_wins_total",
		Help: "Total races won per source (first non-empty success)",
	}, []string{"source"})
	SourceFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "goregion_source_failures_total",
		Help: "Total failed fetch attempts per source (error, empty, or cancelled)",
	}, []string{"source"})
	SourceDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "goregion_source_duration_seconds",
		Help:    "Fetch duration per source",
		Buckets: []float64{0.01, 0.05, 0.1, 0.2, 0.5, 1, 2, 5, 10},
	}, []string{"source"})
	RaceExhaustedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "goregion_race_exhausted_total",
		Help: "Total races where every source failed or the deadline elapsed",
	}, []string{"kind"})
	StaticFallbackTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "goregion_static_fallback_total",
		Help: "Total province lookups served from the embedded dataset",
	})
)

func init() {
	prometheus.MustRegister(CacheHitsTotal)
	prometheus.MustRegister(CacheMissesTotal)
	prometheus.MustRegister(SourceAttemptsTotal)
	prometheus.MustRegister(SourceWinsTotal)
	prometheus.MustRegister(SourceFailuresTotal)
	prometheus.MustRegister(SourceDurationSeconds)
	prometheus.MustRegister(RaceExhaustedTotal)
	prometheus.MustRegister(StaticFallbackTotal)
}

// Handler returns the HTTP handler that serves the registered metrics.
func Handler() http.Handler { return promhttp.Handler() }
