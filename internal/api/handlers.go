// Ludoscope - Game Library Mood & Behavioral Prediction Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ludoscope

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/tomtom215/ludoscope/internal/metrics"
	"github.com/tomtom215/ludoscope/internal/models"
	"github.com/tomtom215/ludoscope/internal/mood"
	"github.com/tomtom215/ludoscope/internal/mood/suggest"
)

// Handlers exposes the mood engine over HTTP.
type Handlers struct {
	engine  *mood.Engine
	catalog *suggest.MemoryCatalog
	logger  zerolog.Logger
}

// NewHandlers creates the API handler set. catalog may be nil when the
// deployment manages the game catalog out of band; the catalog routes
// then return 404.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandlers(engine *mood.Engine, catalog *suggest.MemoryCatalog, logger zerolog.Logger) *Handlers {
	return &Handlers{
		engine:  engine,
		catalog: catalog,
		logger:  logger.With().Str("component", "api").Logger(),
	}
}

type analyzeRequest struct {
	Sessions   []models.PlaySession         `json:"sessions"`
	Games      []models.Game                `json:"games"`
	Activities []models.IntegrationActivity `json:"activities"`
}

type sessionUpdateRequest struct {
	Session models.PlaySession `json:"session" validate:"required"`
	Games   []models.Game      `json:"games" validate:"required,min=1"`
}

type resonanceRequest struct {
	SessionID  string             `json:"session_id" validate:"required"`
	Session    models.PlaySession `json:"session"`
	ActualMood string             `json:"actual_mood" validate:"required,mood"`
}

// AnalyzeMood runs the full signal-to-inference pipeline for a user.
func (h *Handlers) AnalyzeMood(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	userID := chi.URLParam(r, "userID")

	var req analyzeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Request body must be valid JSON", err)
		return
	}

	analysis, err := h.engine.AnalyzeUserMood(r.Context(), userID, req.Sessions, req.Games, req.Activities)
	metrics.RecordAnalysis("analyze", time.Since(started), err)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "ANALYSIS_FAILED", "Mood analysis failed", err)
		return
	}
	metrics.AnalysisConfidence.Observe(analysis.Confidence)

	respondData(w, http.StatusOK, analysis, started)
}

// CurrentMood returns the most recent analysis, or a neutral baseline
// when no sessions have been analyzed yet.
func (h *Handlers) CurrentMood(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	userID := chi.URLParam(r, "userID")

	respondData(w, http.StatusOK, h.engine.CurrentMood(userID), started)
}

// UpdateSession folds a completed play session into the user's mood
// and behavior state.
func (h *Handlers) UpdateSession(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	userID := chi.URLParam(r, "userID")

	var req sessionUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Request body must be valid JSON", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondJSON(w, http.StatusBadRequest, &models.APIResponse{
			Status:   "error",
			Error:    apiErr,
			Metadata: models.Metadata{Timestamp: time.Now()},
		})
		return
	}

	err := h.engine.UpdateMoodAnalysis(r.Context(), userID, req.Session, req.Games)
	metrics.RecordAnalysis("update", time.Since(started), err)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "UPDATE_FAILED", "Session update failed", err)
		return
	}

	respondData(w, http.StatusOK, h.engine.CurrentMood(userID), started)
}

// Suggestions returns ranked game suggestions for the user's current
// or explicitly provided context.
func (h *Handlers) Suggestions(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	userID := chi.URLParam(r, "userID")

	sctx := suggest.Context{
		UserID:           userID,
		Now:              time.Now(),
		Mood:             models.Mood(r.URL.Query().Get("mood")),
		Energy:           getFloatParam(r, "energy", 0.5),
		Device:           r.URL.Query().Get("device"),
		AvailableMinutes: getIntParam(r, "minutes", 0),
		SocialDesire:     getFloatParam(r, "social", 0.5),
	}
	if sctx.Mood != "" && !models.ValidMood(sctx.Mood) {
		respondError(w, http.StatusBadRequest, "INVALID_MOOD", "Unknown mood identifier", nil)
		return
	}

	suggestions, err := h.engine.Suggest(r.Context(), sctx)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "SUGGESTION_FAILED", "Suggestion generation failed", err)
		return
	}
	metrics.RecordSuggestions(time.Since(started), len(suggestions))

	respondData(w, http.StatusOK, suggestions, started)
}

// MoodTrends returns per-day mood distribution over a timeframe.
func (h *Handlers) MoodTrends(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	userID := chi.URLParam(r, "userID")

	days := getIntParam(r, "days", 30)
	if days < 0 || days > 365 {
		respondError(w, http.StatusBadRequest, "INVALID_PARAMETER", "days must be between 0 and 365", nil)
		return
	}

	trends, err := h.engine.AnalyzeMoodTrends(userID, time.Duration(days)*24*time.Hour)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "TREND_FAILED", "Trend analysis failed", err)
		return
	}

	respondData(w, http.StatusOK, trends, started)
}

// MoodForecast predicts the user's likely mood over the coming period.
func (h *Handlers) MoodForecast(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	userID := chi.URLParam(r, "userID")

	hours := getIntParam(r, "hours", 24)
	if hours <= 0 || hours > 24*7 {
		respondError(w, http.StatusBadRequest, "INVALID_PARAMETER", "hours must be between 1 and 168", nil)
		return
	}

	forecast, err := h.engine.AnalyzeMoodForecast(userID, time.Duration(hours)*time.Hour)
	metrics.RecordAnalysis("forecast", time.Since(started), err)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "FORECAST_FAILED", "Mood forecast failed", err)
		return
	}

	respondData(w, http.StatusOK, forecast, started)
}

// MoodRecommendations suggests actions for steering from the user's
// current mood toward a target mood.
func (h *Handlers) MoodRecommendations(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	userID := chi.URLParam(r, "userID")

	target := models.Mood(r.URL.Query().Get("target"))
	if !models.ValidMood(target) {
		respondError(w, http.StatusBadRequest, "INVALID_MOOD", "target must be a known mood identifier", nil)
		return
	}

	current := h.engine.CurrentMood(userID).Dominance.Primary
	recommendations := h.engine.MoodRecommendations(current, target)

	respondData(w, http.StatusOK, map[string]interface{}{
		"current":         current,
		"target":          target,
		"recommendations": recommendations,
	}, started)
}

// RecordResonance records post-session feedback comparing predicted
// and actual mood.
func (h *Handlers) RecordResonance(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	userID := chi.URLParam(r, "userID")

	var req resonanceRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Request body must be valid JSON", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondJSON(w, http.StatusBadRequest, &models.APIResponse{
			Status:   "error",
			Error:    apiErr,
			Metadata: models.Metadata{Timestamp: time.Now()},
		})
		return
	}

	record, err := h.engine.RecordSessionResonance(userID, req.SessionID, req.Session, models.Mood(req.ActualMood))
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "RESONANCE_FAILED", "Resonance recording failed", err)
		return
	}
	metrics.ResonanceRecords.Inc()
	if sys, sysErr := h.engine.SystemResonanceAnalysis(); sysErr == nil && sys.Records > 0 {
		metrics.ResonanceAccuracy.Set(sys.Accuracy)
	}

	respondData(w, http.StatusCreated, record, started)
}

// ResonanceAnalysis returns prediction accuracy metrics for a user.
func (h *Handlers) ResonanceAnalysis(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	userID := chi.URLParam(r, "userID")

	analysis, err := h.engine.UserResonanceAnalysis(userID)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "RESONANCE_FAILED", "Resonance analysis failed", err)
		return
	}

	respondData(w, http.StatusOK, analysis, started)
}

// RecentResonance returns the most recent resonance records for a user.
func (h *Handlers) RecentResonance(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	userID := chi.URLParam(r, "userID")

	limit := getIntParam(r, "limit", 20)
	if limit < 1 || limit > 100 {
		respondError(w, http.StatusBadRequest, "INVALID_PARAMETER", "limit must be between 1 and 100", nil)
		return
	}

	records, err := h.engine.RecentResonanceSessions(userID, limit)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "RESONANCE_FAILED", "Resonance lookup failed", err)
		return
	}

	respondData(w, http.StatusOK, records, started)
}

// SystemResonance returns system-wide prediction accuracy.
func (h *Handlers) SystemResonance(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	analysis, err := h.engine.SystemResonanceAnalysis()
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "RESONANCE_FAILED", "System resonance analysis failed", err)
		return
	}

	respondData(w, http.StatusOK, analysis, started)
}

// UserStats returns analysis and behavior statistics for a user.
func (h *Handlers) UserStats(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	userID := chi.URLParam(r, "userID")

	respondData(w, http.StatusOK, h.engine.MoodAnalysisStats(userID), started)
}

// ExportMoodData returns all stored mood state for a user as JSON.
func (h *Handlers) ExportMoodData(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	data, err := h.engine.ExportMoodData(userID)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "EXPORT_FAILED", "Mood data export failed", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=mood-export.json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Error().Err(err).Msg("Failed to write export response")
	}
}

// ResetUser deletes all per-user mood state. Global learned patterns
// are retained.
func (h *Handlers) ResetUser(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	userID := chi.URLParam(r, "userID")

	if err := h.engine.ResetUserMoodData(userID); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "RESET_FAILED", "User data reset failed", err)
		return
	}

	respondData(w, http.StatusOK, map[string]string{"user_id": userID, "state": "reset"}, started)
}

// Retrain rebuilds the neural network from stored patterns.
func (h *Handlers) Retrain(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	if err := h.engine.Retrain(r.Context()); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "TRAINING_FAILED", "Retraining failed", err)
		return
	}

	respondData(w, http.StatusOK, map[string]string{"state": "retrained"}, started)
}

type catalogUpsertRequest struct {
	Games []models.Game `json:"games" validate:"required,min=1,dive"`
}

// UpsertGames adds or replaces catalog entries.
func (h *Handlers) UpsertGames(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req catalogUpsertRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Request body must be valid JSON", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondJSON(w, http.StatusBadRequest, &models.APIResponse{
			Status:   "error",
			Error:    apiErr,
			Metadata: models.Metadata{Timestamp: time.Now()},
		})
		return
	}

	for _, game := range req.Games {
		if game.ID == "" {
			respondError(w, http.StatusBadRequest, "INVALID_GAME", "Every game needs an id", nil)
			return
		}
		h.catalog.Upsert(game)
	}

	respondData(w, http.StatusOK, map[string]int{"count": h.catalog.Len()}, started)
}

// ListGames returns the full catalog.
func (h *Handlers) ListGames(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	respondData(w, http.StatusOK, h.catalog.Games(), started)
}

// Health reports component health of the engine.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	status := h.engine.HealthCheck()
	code := http.StatusOK
	if status.Status != "ok" && status.Status != "degraded" {
		code = http.StatusServiceUnavailable
	}

	respondData(w, code, status, started)
}
