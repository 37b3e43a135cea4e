// Ludoscope - Game Library Mood & Behavioral Prediction Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ludoscope

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"

	"github.com/tomtom215/ludoscope/internal/logging"
	"github.com/tomtom215/ludoscope/internal/metrics"
)

// RateLimitConfig defines rate limiting parameters
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// Rate limit configurations for different endpoint groups.
// Analysis endpoints run the inference pipeline and are capped tighter
// than read-only queries.
var (
	RateLimitAnalysis = RateLimitConfig{Requests: 60, Window: 1 * time.Minute}
	RateLimitQuery    = RateLimitConfig{Requests: 300, Window: 1 * time.Minute}
	RateLimitMutation = RateLimitConfig{Requests: 120, Window: 1 * time.Minute}
)

// RateLimit returns a rate limiting middleware keyed by client IP.
func RateLimit(config RateLimitConfig) func(http.Handler) http.Handler {
	return httprate.LimitByIP(config.Requests, config.Window)
}

// RequestIDWithLogging assigns a correlation ID to every request and
// propagates it through the request context so handlers and the engine
// log with the same ID.
func RequestIDWithLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := logging.WithCorrelationID(r.Context(), requestID)
		w.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Metrics records request counts and latency per route pattern.
// The chi route pattern is used instead of the raw path to keep
// metric cardinality bounded.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusResponseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		routePattern := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			routePattern = rctx.RoutePattern()
		}
		metrics.RecordAPIRequest(r.Method, routePattern, strconv.Itoa(sw.status), time.Since(start))
	})
}

// statusResponseWriter captures the response status code for metrics.
type statusResponseWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusResponseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
