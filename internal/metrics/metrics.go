// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stylist_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stylist_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stylist_api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	// Engine Metrics
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stylist_operation_duration_seconds",
			Help:    "Duration of engine operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"operation"}, // recommendations, similar, outfits, wardrobe, update_profile
	)

	OperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stylist_operation_errors_total",
			Help: "Total number of engine operations that returned an error",
		},
		[]string{"operation"},
	)

	OperationResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stylist_operation_results",
			Help:    "Number of results returned per engine operation",
			Buckets: []float64{0, 1, 3, 5, 10, 20, 50, 100},
		},
		[]string{"operation"},
	)

	ProductsScored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stylist_products_scored_total",
			Help: "Total number of products scored",
		},
	)

	// Scoring Metrics
	ScoringFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stylist_scoring_fallbacks_total",
			Help: "Total number of scoring calls served by the heuristic fallback",
		},
		[]string{"scorer", "reason"}, // reason: unavailable, timeout, error, circuit_open, invalid_output, canceled
	)

	CandidateScansTruncated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stylist_candidate_scans_truncated_total",
			Help: "Total number of recommendation requests whose catalog scan hit the candidate cap",
		},
	)

	ModelRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stylist_model_requests_total",
			Help: "Total number of remote model prediction requests",
		},
		[]string{"outcome"}, // success, error
	)

	ModelRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "stylist_model_request_duration_seconds",
			Help:    "Duration of remote model prediction requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Cache Metrics
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stylist_cache_lookups_total",
			Help: "Total number of cache lookups",
		},
		[]string{"cache", "tier", "result"}, // tier: memory, store; result: hit, miss
	)

	CacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "stylist_cache_entries",
			Help: "Current number of in-memory cache entries",
		},
		[]string{"cache"},
	)

	// Catalog Metrics
	CatalogQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stylist_catalog_query_duration_seconds",
			Help:    "Duration of catalog gateway queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	CatalogQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stylist_catalog_query_errors_total",
			Help: "Total number of failed catalog gateway queries",
		},
		[]string{"operation"},
	)

	// Event Stream Metrics
	EventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stylist_events_consumed_total",
			Help: "Total number of interaction events consumed",
		},
		[]string{"result"}, // processed, malformed, failed
	)

	EventsPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stylist_events_published_total",
			Help: "Total number of interaction events published",
		},
	)

	// Trend Refresh Metrics
	TrendRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stylist_trend_refreshes_total",
			Help: "Total number of trend table refresh attempts",
		},
		[]string{"result"}, // success, error
	)

	TrendTableSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stylist_trend_table_entries",
			Help: "Current number of entries in the trend table",
		},
	)

	TrendLastRefresh = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stylist_trend_last_refresh_timestamp",
			Help: "Unix timestamp of the last successful trend refresh",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "stylist_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stylist_circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "stylist_circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stylist_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordCandidateTruncation records a catalog scan that hit the candidate cap.
func RecordCandidateTruncation() {
	CandidateScansTruncated.Inc()
}

// RecordOperation records the latency, result count and outcome of an engine operation.
func RecordOperation(operation string, duration time.Duration, results int, err error) {
	OperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		OperationErrors.WithLabelValues(operation).Inc()
		return
	}
	OperationResults.WithLabelValues(operation).Observe(float64(results))
}

// RecordProductsScored adds n to the scored products counter.
func RecordProductsScored(n int) {
	ProductsScored.Add(float64(n))
}

// RecordScoringFallback counts n scores served by the heuristic for reason.
func RecordScoringFallback(scorer, reason string, n int) {
	ScoringFallbacks.WithLabelValues(scorer, reason).Add(float64(n))
}

// RecordModelRequest records a remote model call.
func RecordModelRequest(duration time.Duration, err error) {
	ModelRequestDuration.Observe(duration.Seconds())
	if err != nil {
		ModelRequests.WithLabelValues("error").Inc()
		return
	}
	ModelRequests.WithLabelValues("success").Inc()
}

// RecordCacheLookup records a cache hit or miss on a tier.
func RecordCacheLookup(cache, tier string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookups.WithLabelValues(cache, tier, result).Inc()
}

// SetCacheEntries sets the in-memory entry count for cache.
func SetCacheEntries(cache string, n int) {
	CacheEntries.WithLabelValues(cache).Set(float64(n))
}

// RecordCatalogQuery records a catalog gateway query.
func RecordCatalogQuery(operation string, duration time.Duration, err error) {
	CatalogQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		CatalogQueryErrors.WithLabelValues(operation).Inc()
	}
}

// RecordEventConsumed records the outcome of one consumed interaction event.
func RecordEventConsumed(result string) {
	EventsConsumed.WithLabelValues(result).Inc()
}

// RecordEventPublished counts a published interaction event.
func RecordEventPublished() {
	EventsPublished.Inc()
}

// RecordTrendRefresh records a trend refresh attempt and the resulting table size.
func RecordTrendRefresh(entries int, err error) {
	if err != nil {
		TrendRefreshes.WithLabelValues("error").Inc()
		return
	}
	TrendRefreshes.WithLabelValues("success").Inc()
	TrendTableSize.Set(float64(entries))
	TrendLastRefresh.Set(float64(time.Now().Unix()))
}
