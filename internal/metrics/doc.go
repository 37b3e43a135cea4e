// Ludoscope - Game Library Mood & Behavioral Prediction Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ludoscope

/*
Package metrics provides Prometheus metrics collection and export for observability.

The package instruments the mood engine with:
  - Analysis request counts, latency, and confidence distribution
  - Suggestion generation latency and result counts
  - Suggestion-cache hit/miss/invalidation counters
  - Network training duration and run outcomes
  - Resonance record counts and system prediction accuracy
  - API endpoint latency and throughput
  - Circuit breaker state for the rating-prediction delegate

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8080/metrics

All metric recording functions are thread-safe; the Prometheus client
library handles synchronization internally. Labels avoid user IDs to
keep cardinality bounded.

Example PromQL queries:

	# analysis request rate
	rate(mood_analysis_requests_total[5m])

	# suggestion cache hit rate
	sum(rate(cache_hits_total[5m])) / (sum(rate(cache_hits_total[5m])) + sum(rate(cache_misses_total[5m])))

	# p95 analysis latency
	histogram_quantile(0.95, rate(mood_analysis_duration_seconds_bucket[5m]))
*/
package metrics
