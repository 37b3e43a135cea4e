// Ludoscope - Game Library Mood & Behavioral Prediction Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ludoscope

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/tomtom215/ludoscope/internal/mood"
	"github.com/tomtom215/ludoscope/internal/mood/suggest"
)

// NewRouter builds the HTTP router for the mood engine API.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRouter(engine *mood.Engine, catalog *suggest.MemoryCatalog, logger zerolog.Logger) http.Handler {
	h := NewHandlers(engine, catalog, logger)

	r := chi.NewRouter()

	// Global middleware, order matters: request ID first so every
	// downstream log line carries the correlation ID.
	r.Use(RequestIDWithLogging)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(Metrics)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Route("/mood/{userID}", func(r chi.Router) {
			// Inference endpoints run the full pipeline.
			r.Group(func(r chi.Router) {
				r.Use(RateLimit(RateLimitAnalysis))
				r.Post("/analyze", h.AnalyzeMood)
				r.Get("/forecast", h.MoodForecast)
				r.Get("/suggestions", h.Suggestions)
			})

			// Read-only state queries.
			r.Group(func(r chi.Router) {
				r.Use(RateLimit(RateLimitQuery))
				r.Get("/current", h.CurrentMood)
				r.Get("/trends", h.MoodTrends)
				r.Get("/stats", h.UserStats)
				r.Get("/export", h.ExportMoodData)
				r.Get("/recommendations", h.MoodRecommendations)
				r.Get("/resonance", h.ResonanceAnalysis)
				r.Get("/resonance/recent", h.RecentResonance)
			})

			// State mutations.
			r.Group(func(r chi.Router) {
				r.Use(RateLimit(RateLimitMutation))
				r.Post("/sessions", h.UpdateSession)
				r.Post("/resonance", h.RecordResonance)
				r.Delete("/", h.ResetUser)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(RateLimit(RateLimitQuery))
			r.Get("/resonance/system", h.SystemResonance)
		})

		r.Group(func(r chi.Router) {
			r.Use(RateLimit(RateLimitMutation))
			r.Post("/admin/retrain", h.Retrain)
		})

		if catalog != nil {
			r.Route("/catalog/games", func(r chi.Router) {
				r.Use(RateLimit(RateLimitMutation))
				r.Get("/", h.ListGames)
				r.Put("/", h.UpsertGames)
			})
		}
	})

	return r
}
