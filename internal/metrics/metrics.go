// CineMatch - Hybrid Movie Recommendation Demo
// Copyright 2026 M. Vickers (mvickers)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvickers/cinematch

// Package metrics provides Prometheus instrumentation for CineMatch:
// recommendation latency and fallbacks, HTTP endpoint throughput,
// similarity-row cache efficiency, and TMDB circuit breaker state.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Recommendation metrics

	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinematch_recommend_duration_seconds",
			Help:    "Duration of recommendation requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mode"}, // "content", "collaborative", "hybrid"
	)

	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinematch_recommend_requests_total",
			Help: "Total number of recommendation requests by mode and result source",
		},
		[]string{"mode", "source"}, // source includes "popularity" when a fallback fired
	)

	RecommendErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinematch_recommend_errors_total",
			Help: "Total number of rejected recommendation requests",
		},
		[]string{"mode", "reason"},
	)

	// Similarity row cache metrics

	SimilarityCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cinematch_similarity_cache_hits_total",
			Help: "Total number of similarity row cache hits",
		},
	)

	SimilarityCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cinematch_similarity_cache_misses_total",
			Help: "Total number of similarity row cache misses",
		},
	)

	// HTTP metrics

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinematch_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// TMDB enrichment metrics

	TMDBRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinematch_tmdb_requests_total",
			Help: "Total number of TMDB API requests by outcome",
		},
		[]string{"operation", "outcome"}, // outcome: "success", "failure", "rejected"
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cinematch_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinematch_circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Dataset metrics, set once at startup

	DatasetItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cinematch_dataset_items",
			Help: "Number of movies loaded into the item store",
		},
	)

	DatasetInteractions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cinematch_dataset_interactions",
			Help: "Number of ratings loaded into the interaction store",
		},
	)
)

// ObserveHTTPRequest records a completed HTTP request.
func ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, strconv.Itoa(status)).Observe(duration.Seconds())
}

// ObserveRecommendation records a completed recommendation request.
func ObserveRecommendation(mode, source string, duration time.Duration) {
	RecommendDuration.WithLabelValues(mode).Observe(duration.Seconds())
	RecommendRequests.WithLabelValues(mode, source).Inc()
}
