// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered on the default registry through promauto and are
exposed at /metrics by the API router:

	curl http://localhost:8080/metrics

# Available Metrics

API:
  - stylist_api_requests_total{method,endpoint,status_code}
  - stylist_api_request_duration_seconds{method,endpoint}
  - stylist_api_active_requests

Engine:
  - stylist_operation_duration_seconds{operation}
  - stylist_operation_errors_total{operation}
  - stylist_operation_results{operation}
  - stylist_products_scored_total

Scoring:
  - stylist_scoring_fallbacks_total{scorer,reason}
  - stylist_model_requests_total{outcome}
  - stylist_model_request_duration_seconds

Caches, catalog and events:
  - stylist_cache_lookups_total{cache,tier,result}
  - stylist_cache_entries{cache}
  - stylist_catalog_query_duration_seconds{operation}
  - stylist_catalog_query_errors_total{operation}
  - stylist_events_consumed_total{result}
  - stylist_events_published_total
  - stylist_trend_refreshes_total{result}
  - stylist_trend_table_entries
  - stylist_trend_last_refresh_timestamp

Circuit breakers:
  - stylist_circuit_breaker_state{name}
  - stylist_circuit_breaker_requests_total{name,result}
  - stylist_circuit_breaker_consecutive_failures{name}
  - stylist_circuit_breaker_state_transitions_total{name,from_state,to_state}

# Usage

	start := time.Now()
	recs, err := engine.GetPersonalizedRecommendations(ctx, userID, limit, "")
	metrics.RecordOperation("recommendations", time.Since(start), len(recs), err)
*/
package metrics
