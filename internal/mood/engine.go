// Ludoscope - Game Library Mood & Behavioral Prediction Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ludoscope

// Package mood composes the analysis pipeline into one engine: signal
// collection, feature extraction, heuristic inference, pattern and
// transition learning, behavior analysis, suggestions, and the
// resonance feedback loop.
package mood

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/ludoscope/internal/cache"
	"github.com/tomtom215/ludoscope/internal/models"
	"github.com/tomtom215/ludoscope/internal/mood/behavior"
	"github.com/tomtom215/ludoscope/internal/mood/feature"
	"github.com/tomtom215/ludoscope/internal/mood/inference"
	"github.com/tomtom215/ludoscope/internal/mood/neural"
	"github.com/tomtom215/ludoscope/internal/mood/resonance"
	"github.com/tomtom215/ludoscope/internal/mood/signal"
	"github.com/tomtom215/ludoscope/internal/mood/suggest"
)

// MoodAnalysis is the result of one analysis pass for a user.
type MoodAnalysis struct {
	UserID      string                    `json:"user_id"`
	Vector      models.MoodVector         `json:"mood_vector"`
	Dominance   inference.Dominance       `json:"dominance"`
	Confidence  float64                   `json:"confidence"`
	Features    models.NormalizedFeatures `json:"features"`
	SignalCount int                       `json:"signal_count"`
	LastUpdated time.Time                 `json:"last_updated"`

	// Neutral reports the documented default returned when no analysis
	// has run for the user yet.
	Neutral bool `json:"neutral,omitempty"`
}

// Stats summarizes engine state for one user.
type Stats struct {
	UserID           string      `json:"user_id"`
	Sessions         int         `json:"sessions"`
	MoodPatterns     int         `json:"mood_patterns"`
	Transitions      int         `json:"transitions"`
	BehaviorSessions int         `json:"behavior_sessions"`
	ResonanceRecords int         `json:"resonance_records"`
	NetworkTrained   bool        `json:"network_trained"`
	TrainRuns        int         `json:"train_runs"`
	Cache            cache.Stats `json:"cache"`
}

// HealthStatus reports engine component health.
type HealthStatus struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
	CheckedAt  time.Time         `json:"checked_at"`
}

// Export is the serializable bundle of a user's mood data.
type Export struct {
	UserID      string                    `json:"user_id"`
	Analysis    *MoodAnalysis             `json:"analysis,omitempty"`
	Behavior    *behavior.BehaviorPattern `json:"behavior,omitempty"`
	Patterns    []*neural.MoodPattern     `json:"mood_patterns"`
	Transitions []neural.TransitionStat   `json:"transitions"`
	Resonance   resonance.UserAnalysis    `json:"resonance"`
	ExportedAt  time.Time                 `json:"exported_at"`
}

// Stores bundles the injected persistence backends.
type Stores struct {
	Patterns  neural.PatternStore
	Behavior  behavior.Store
	Resonance resonance.Store
}

// Engine is the mood and behavioral prediction facade.
//
// Per-user state (session history, last analysis) is guarded by a
// mutex; the component analyzers carry their own synchronization.
type Engine struct {
	cfg        Config
	logger     zerolog.Logger
	collector  *signal.Collector
	extractor  *feature.Extractor
	inferencer *inference.Inferencer
	analyzer   *neural.Analyzer
	behavior   *behavior.Analyzer
	suggester  *suggest.Suggester
	recorder   *resonance.Recorder
	catalog    suggest.Catalog
	cache      *cache.Cache

	mu       sync.RWMutex
	analyses map[string]*MoodAnalysis
	sessions map[string][]models.PlaySession
}

// NewEngine wires the full pipeline. catalog is required; zero-value
// stores default to in-memory backing.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg Config, catalog suggest.Catalog, stores Stores, rater suggest.RatingPredictor, logger zerolog.Logger) (*Engine, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate engine config: %w", err)
	}

	log := logger.With().Str("component", "mood_engine").Logger()

	if stores.Patterns == nil {
		stores.Patterns = neural.NewMemoryPatternStore()
	}
	if stores.Behavior == nil {
		stores.Behavior = behavior.NewMemoryStore()
	}
	if stores.Resonance == nil {
		stores.Resonance = resonance.NewMemoryStore()
	}

	analyzer, err := neural.NewAnalyzer(cfg.Neural, catalog.Games(), stores.Patterns, logger)
	if err != nil {
		return nil, fmt.Errorf("build neural analyzer: %w", err)
	}

	ba := behavior.NewAnalyzer(cfg.Behavior, stores.Behavior, logger)
	suggestionCache := cache.New(cfg.Suggest.CacheTTL)
	suggester, err := suggest.NewSuggester(cfg.Suggest, catalog, ba, suggestionCache, rater, logger)
	if err != nil {
		suggestionCache.Close()
		return nil, fmt.Errorf("build suggester: %w", err)
	}

	return &Engine{
		cfg:        cfg,
		logger:     log,
		collector:  signal.NewCollector(cfg.Signal, logger),
		extractor:  feature.NewExtractor(cfg.Feature, logger),
		inferencer: inference.NewInferencer(cfg.Inference, logger),
		analyzer:   analyzer,
		behavior:   ba,
		suggester:  suggester,
		recorder:   resonance.NewRecorder(stores.Resonance, logger),
		catalog:    catalog,
		cache:      suggestionCache,
		analyses:   make(map[string]*MoodAnalysis),
		sessions:   make(map[string][]models.PlaySession),
	}, nil
}

// Close releases engine resources.
func (e *Engine) Close() {
	e.cache.Close()
}

// AnalyzeUserMood runs the full pipeline over the supplied history and
// returns the resulting analysis. The reported confidence is scaled by
// the user's resonance calibration so a historically overconfident
// engine self-corrects.
func (e *Engine) AnalyzeUserMood(ctx context.Context, userID string, sessions []models.PlaySession, games []models.Game, activities []models.IntegrationActivity) (*MoodAnalysis, error) {
	if userID == "" {
		return nil, e.analysisError(fmt.Errorf("empty user id"))
	}

	now := time.Now()
	signals := e.collector.Collect(now, sessions, games, activities)
	features := e.extractor.Extract(signals)
	featConf := e.extractor.ExtractConfidence(now, signals)
	vector := e.inferencer.Infer(features)
	dominance := e.inferencer.Dominant(vector)
	confidence := e.inferencer.Confidence(featConf.Overall, vector, features)

	if calibration, err := e.recorder.AnalyzeUser(userID); err == nil && calibration.Records > 0 {
		confidence = models.Clamp01(confidence * calibration.ConfidenceAdjustment)
	}

	analysis := &MoodAnalysis{
		UserID:      userID,
		Vector:      vector,
		Dominance:   dominance,
		Confidence:  confidence,
		Features:    features,
		SignalCount: len(signals),
		LastUpdated: now,
	}

	if err := e.analyzer.AnalyzeSessions(ctx, sessions); err != nil {
		return nil, e.analysisError(fmt.Errorf("analyze sessions: %w", err))
	}

	e.mu.Lock()
	e.analyses[userID] = analysis
	e.sessions[userID] = boundedAppend(e.sessions[userID], sessions, e.cfg.MaxSessionHistory)
	e.mu.Unlock()

	e.logger.Debug().
		Str("user_id", userID).
		Str("dominant", string(dominance.Primary)).
		Float64("confidence", confidence).
		Int("signals", len(signals)).
		Msg("mood analysis complete")
	return analysis, nil
}

// CurrentMood returns the last analysis for the user, or the documented
// neutral default when none exists.
func (e *Engine) CurrentMood(userID string) *MoodAnalysis {
	e.mu.RLock()
	analysis, ok := e.analyses[userID]
	e.mu.RUnlock()
	if ok {
		return analysis
	}

	neutral := models.NeutralFeatures()
	vector := e.inferencer.Infer(neutral)
	return &MoodAnalysis{
		UserID:      userID,
		Vector:      vector,
		Dominance:   e.inferencer.Dominant(vector),
		Confidence:  0,
		Features:    neutral,
		LastUpdated: time.Time{},
		Neutral:     true,
	}
}

// UpdateMoodAnalysis folds one completed session into the learned
// state: behavior patterns, pattern/transition learning, and eager
// suggestion-cache invalidation for the user.
func (e *Engine) UpdateMoodAnalysis(ctx context.Context, userID string, session models.PlaySession, games []models.Game) error {
	if session.UserID == "" {
		session.UserID = userID
	}

	game, ok := e.catalog.Game(session.GameID)
	if !ok {
		for _, g := range games {
			if g.ID == session.GameID {
				game = g
				break
			}
		}
	}

	if _, err := e.behavior.Update(session, game); err != nil {
		return e.analysisError(fmt.Errorf("update behavior pattern: %w", err))
	}

	e.mu.Lock()
	// The prior session is transition context only; counting it again
	// would double its pattern observations.
	var previous *models.PlaySession
	if prior := e.sessions[userID]; len(prior) > 0 {
		prev := prior[len(prior)-1]
		previous = &prev
	}
	e.sessions[userID] = boundedAppend(e.sessions[userID], []models.PlaySession{session}, e.cfg.MaxSessionHistory)
	e.mu.Unlock()

	if err := e.analyzer.ObserveSession(ctx, previous, session); err != nil {
		return e.analysisError(fmt.Errorf("analyze session update: %w", err))
	}

	e.suggester.InvalidateUser(userID)
	return nil
}

// Suggest returns ranked game suggestions for the context, defaulting
// the mood to the user's current dominant mood when unset.
func (e *Engine) Suggest(ctx context.Context, sctx suggest.Context) ([]suggest.Suggestion, error) {
	if sctx.Mood == "" {
		sctx.Mood = e.CurrentMood(sctx.UserID).Dominance.Primary
	}
	return e.suggester.Suggest(ctx, sctx)
}

// PredictCurrentMood predicts the user's present mood from their recent
// session history.
func (e *Engine) PredictCurrentMood(userID string) neural.Prediction {
	e.mu.RLock()
	history := e.sessions[userID]
	e.mu.RUnlock()
	return e.analyzer.PredictCurrentMood(time.Now(), history)
}

// MoodRecommendations returns game ids associated with the current
// mood, or with reaching the target mood through the transition graph.
func (e *Engine) MoodRecommendations(current, target models.Mood) []string {
	return e.analyzer.Recommendations(current, target)
}

// RecordSessionResonance compares the forecast active for the user
// against the reported actual mood, stores the record, and feeds the
// mismatch back into the inferencer's weights.
func (e *Engine) RecordSessionResonance(userID, sessionID string, session models.PlaySession, actualMood models.Mood) (resonance.SessionResonance, error) {
	e.mu.RLock()
	analysis, hadAnalysis := e.analyses[userID]
	e.mu.RUnlock()

	var predicted models.Mood
	var confidence float64
	if hadAnalysis {
		predicted = analysis.Dominance.Primary
		confidence = analysis.Confidence
	}

	record, err := e.recorder.Record(resonance.SessionResonance{
		UserID:         userID,
		SessionID:      sessionID,
		GameID:         session.GameID,
		PredictedMood:  predicted,
		ActualMood:     actualMood,
		Confidence:     confidence,
		Satisfaction:   session.Intensity,
		SessionMinutes: session.DurationMinutes(),
		Completed:      session.Completed,
	})
	if err != nil {
		return resonance.SessionResonance{}, e.resonanceError(err)
	}

	if hadAnalysis && !record.PredictionMatch {
		e.inferencer.AdjustWeights(inference.Feedback{
			Predicted: predicted,
			Actual:    actualMood,
			Features:  analysis.Features,
		})
	}
	return record, nil
}

// UserResonanceAnalysis summarizes one user's feedback history.
func (e *Engine) UserResonanceAnalysis(userID string) (resonance.UserAnalysis, error) {
	analysis, err := e.recorder.AnalyzeUser(userID)
	if err != nil {
		return resonance.UserAnalysis{}, e.resonanceError(err)
	}
	return analysis, nil
}

// SystemResonanceAnalysis summarizes all users together.
func (e *Engine) SystemResonanceAnalysis() (resonance.SystemAnalysis, error) {
	analysis, err := e.recorder.AnalyzeSystem()
	if err != nil {
		return resonance.SystemAnalysis{}, e.resonanceError(err)
	}
	return analysis, nil
}

// RecentResonanceSessions returns the newest resonance records for a
// user, newest first.
func (e *Engine) RecentResonanceSessions(userID string, limit int) ([]resonance.SessionResonance, error) {
	records, err := e.recorder.Recent(userID, limit)
	if err != nil {
		return nil, e.resonanceError(err)
	}
	return records, nil
}

// ResonanceDataForForecasting returns the user's reported mood series
// in chronological order.
func (e *Engine) ResonanceDataForForecasting(userID string) ([]models.Mood, error) {
	series, err := e.recorder.MoodSeries(userID)
	if err != nil {
		return nil, e.forecastError(err)
	}
	return series, nil
}

// MoodAnalysisStats reports per-user and engine-wide counters.
func (e *Engine) MoodAnalysisStats(userID string) Stats {
	e.mu.RLock()
	sessions := len(e.sessions[userID])
	e.mu.RUnlock()

	patterns, _ := e.analyzer.Patterns()
	behaviorSessions := 0
	if p, ok := e.behavior.Pattern(userID); ok {
		behaviorSessions = p.SessionCount
	}
	resonanceRecords := 0
	if analysis, err := e.recorder.AnalyzeUser(userID); err == nil {
		resonanceRecords = analysis.Records
	}

	return Stats{
		UserID:           userID,
		Sessions:         sessions,
		MoodPatterns:     len(patterns),
		Transitions:      len(e.analyzer.Transitions()),
		BehaviorSessions: behaviorSessions,
		ResonanceRecords: resonanceRecords,
		NetworkTrained:   e.analyzer.Trained(),
		TrainRuns:        e.analyzer.TrainRuns(),
		Cache:            e.cache.GetStats(),
	}
}

// ValidateAnalysis checks an analysis result's invariants and returns
// the violated ones as issue strings.
func (e *Engine) ValidateAnalysis(analysis *MoodAnalysis) []string {
	if analysis == nil {
		return []string{"analysis is nil"}
	}
	issues := e.extractor.Validate(analysis.Features)
	for _, m := range models.Moods() {
		if v := analysis.Vector.Get(m); v < 0 || v > 1 {
			issues = append(issues, fmt.Sprintf("mood %s value %f outside [0,1]", m, v))
		}
	}
	if analysis.Confidence < 0 || analysis.Confidence > 1 {
		issues = append(issues, fmt.Sprintf("confidence %f outside [0,1]", analysis.Confidence))
	}
	return issues
}

// ExportMoodData serializes a user's learned state as JSON.
func (e *Engine) ExportMoodData(userID string) ([]byte, error) {
	e.mu.RLock()
	analysis := e.analyses[userID]
	e.mu.RUnlock()

	patterns, err := e.analyzer.Patterns()
	if err != nil {
		return nil, e.analysisError(fmt.Errorf("load patterns: %w", err))
	}
	resAnalysis, err := e.recorder.AnalyzeUser(userID)
	if err != nil {
		return nil, e.analysisError(fmt.Errorf("load resonance: %w", err))
	}
	bundle := Export{
		UserID:      userID,
		Analysis:    analysis,
		Patterns:    patterns,
		Transitions: e.analyzer.Transitions(),
		Resonance:   resAnalysis,
		ExportedAt:  time.Now(),
	}
	if p, ok := e.behavior.Pattern(userID); ok {
		bundle.Behavior = p
	}

	data, err := json.Marshal(bundle)
	if err != nil {
		return nil, e.analysisError(fmt.Errorf("marshal export: %w", err))
	}
	return data, nil
}

// ResetUserMoodData removes all per-user state. The global mood
// patterns and the trained network are shared across users and remain.
func (e *Engine) ResetUserMoodData(userID string) error {
	e.mu.Lock()
	delete(e.analyses, userID)
	delete(e.sessions, userID)
	e.mu.Unlock()

	if err := e.behavior.Delete(userID); err != nil {
		return e.analysisError(fmt.Errorf("delete behavior pattern: %w", err))
	}
	if err := e.recorder.Reset(userID); err != nil {
		return e.resonanceError(err)
	}
	e.suggester.InvalidateUser(userID)
	return nil
}

// Retrain re-runs network training over the accumulated history.
// Used by the background training service.
func (e *Engine) Retrain(ctx context.Context) error {
	if err := e.analyzer.Retrain(ctx); err != nil {
		return e.analysisError(fmt.Errorf("retrain: %w", err))
	}
	return nil
}

// HealthCheck reports component status.
func (e *Engine) HealthCheck() HealthStatus {
	components := map[string]string{
		"collector": "ok",
		"inference": "ok",
		"behavior":  "ok",
		"suggest":   "ok",
		"resonance": "ok",
		"network":   "untrained",
	}
	if e.analyzer.Trained() {
		components["network"] = "trained"
	}
	if _, err := e.analyzer.Patterns(); err != nil {
		components["pattern_store"] = err.Error()
	} else {
		components["pattern_store"] = "ok"
	}

	status := "ok"
	for name, state := range components {
		if state != "ok" && state != "trained" && state != "untrained" {
			status = "degraded"
			e.logger.Warn().Str("component", name).Str("state", state).Msg("health check degraded")
		}
	}
	return HealthStatus{Status: status, Components: components, CheckedAt: time.Now()}
}

// analysisError logs the cause and relabels it.
func (e *Engine) analysisError(err error) error {
	e.logger.Error().Err(err).Msg("mood analysis failed")
	return ErrAnalysisFailed
}

func (e *Engine) forecastError(err error) error {
	e.logger.Error().Err(err).Msg("mood forecasting failed")
	return ErrForecastFailed
}

func (e *Engine) resonanceError(err error) error {
	e.logger.Error().Err(err).Msg("resonance recording failed")
	return ErrResonanceFailed
}

// boundedAppend appends and trims to the newest limit entries.
func boundedAppend(history, added []models.PlaySession, limit int) []models.PlaySession {
	history = append(history, added...)
	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}
	return history
}
