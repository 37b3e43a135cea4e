// Ludoscope - Game Library Mood & Behavioral Prediction Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ludoscope

// Package resonance closes the feedback loop: after a play session the
// user reports how it actually felt, and the recorder compares that
// against what the engine predicted. The accumulated records drive
// accuracy tracking, confidence calibration, and mood forecasting.
package resonance

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/ludoscope/internal/models"
)

// SessionResonance is one recorded feedback data point.
type SessionResonance struct {
	ID              string      `json:"id"`
	UserID          string      `json:"user_id"`
	SessionID       string      `json:"session_id"`
	GameID          string      `json:"game_id"`
	PredictedMood   models.Mood `json:"predicted_mood"`
	ActualMood      models.Mood `json:"actual_mood"`
	Confidence      float64     `json:"confidence"`
	Satisfaction    float64     `json:"satisfaction"`
	SessionMinutes  float64     `json:"session_minutes"`
	Completed       bool        `json:"completed"`
	RecordedAt      time.Time   `json:"recorded_at"`
	PredictionMatch bool        `json:"prediction_match"`
}

// UserAnalysis summarizes one user's feedback history.
type UserAnalysis struct {
	UserID string `json:"user_id"`

	// Records is the number of resonance records considered.
	Records int `json:"records"`

	// Accuracy is the fraction of records whose predicted mood matched
	// the reported one.
	Accuracy float64 `json:"accuracy"`

	// MeanSatisfaction averages reported satisfaction.
	MeanSatisfaction float64 `json:"mean_satisfaction"`

	// ConfidenceAdjustment is the recommended multiplier for future
	// prediction confidences: below 1 when the engine was overconfident
	// (high confidence, low accuracy), above 1 when underconfident.
	ConfidenceAdjustment float64 `json:"confidence_adjustment"`

	// PerMood breaks metrics down by reported mood.
	PerMood map[models.Mood]MoodMetrics `json:"per_mood"`
}

// MoodMetrics aggregates sessions that resolved into one mood.
type MoodMetrics struct {
	Sessions         int     `json:"sessions"`
	MeanMinutes      float64 `json:"mean_minutes"`
	MeanSatisfaction float64 `json:"mean_satisfaction"`
	CompletionRate   float64 `json:"completion_rate"`
}

// SystemAnalysis summarizes all users together.
type SystemAnalysis struct {
	Users          int     `json:"users"`
	Records        int     `json:"records"`
	Accuracy       float64 `json:"accuracy"`
	MeanConfidence float64 `json:"mean_confidence"`
}

// Store holds resonance records. Implementations must be safe for
// concurrent use.
type Store interface {
	// Append adds one record.
	Append(record SessionResonance) error

	// ForUser returns the user's records, oldest first.
	ForUser(userID string) ([]SessionResonance, error)

	// All returns every record, oldest first.
	All() ([]SessionResonance, error)

	// DeleteUser removes a user's records.
	DeleteUser(userID string) error
}

// Recorder writes and analyzes resonance records.
type Recorder struct {
	logger zerolog.Logger
	store  Store
}

// NewRecorder creates a recorder over the given store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRecorder(store Store, logger zerolog.Logger) *Recorder {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Recorder{
		logger: logger.With().Str("component", "resonance").Logger(),
		store:  store,
	}
}

// Record validates and stores one feedback record, assigning an id and
// timestamp when absent. Returns the stored record.
func (r *Recorder) Record(record SessionResonance) (SessionResonance, error) {
	if record.UserID == "" {
		return SessionResonance{}, fmt.Errorf("resonance record has no user id")
	}
	if !models.ValidMood(record.ActualMood) {
		return SessionResonance{}, fmt.Errorf("invalid actual mood %q", record.ActualMood)
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.RecordedAt.IsZero() {
		record.RecordedAt = time.Now()
	}
	record.Satisfaction = models.Clamp01(record.Satisfaction)
	record.Confidence = models.Clamp01(record.Confidence)
	record.PredictionMatch = models.ValidMood(record.PredictedMood) && record.PredictedMood == record.ActualMood

	if err := r.store.Append(record); err != nil {
		return SessionResonance{}, fmt.Errorf("append resonance record: %w", err)
	}

	r.logger.Debug().
		Str("user_id", record.UserID).
		Str("predicted", string(record.PredictedMood)).
		Str("actual", string(record.ActualMood)).
		Bool("match", record.PredictionMatch).
		Msg("session resonance recorded")
	return record, nil
}

// AnalyzeUser computes accuracy, satisfaction, calibration, and
// per-mood metrics for one user. An empty history yields a zero-record
// analysis with a neutral adjustment of 1.
func (r *Recorder) AnalyzeUser(userID string) (UserAnalysis, error) {
	records, err := r.store.ForUser(userID)
	if err != nil {
		return UserAnalysis{}, fmt.Errorf("load resonance records: %w", err)
	}

	analysis := UserAnalysis{
		UserID:               userID,
		Records:              len(records),
		ConfidenceAdjustment: 1,
		PerMood:              make(map[models.Mood]MoodMetrics),
	}
	if len(records) == 0 {
		return analysis, nil
	}

	matches := 0
	sumSatisfaction, sumConfidence := 0.0, 0.0
	type moodAcc struct {
		sessions     int
		minutes      float64
		satisfaction float64
		completed    int
	}
	byMood := make(map[models.Mood]*moodAcc)

	for _, rec := range records {
		if rec.PredictionMatch {
			matches++
		}
		sumSatisfaction += rec.Satisfaction
		sumConfidence += rec.Confidence

		acc, ok := byMood[rec.ActualMood]
		if !ok {
			acc = &moodAcc{}
			byMood[rec.ActualMood] = acc
		}
		acc.sessions++
		acc.minutes += rec.SessionMinutes
		acc.satisfaction += rec.Satisfaction
		if rec.Completed {
			acc.completed++
		}
	}

	n := float64(len(records))
	analysis.Accuracy = float64(matches) / n
	analysis.MeanSatisfaction = sumSatisfaction / n

	// Calibration: when mean confidence exceeds realized accuracy the
	// engine was overconfident and future confidences get scaled down,
	// and vice versa. Bounded to [0.5, 1.5] so one bad stretch cannot
	// zero out predictions.
	meanConfidence := sumConfidence / n
	if meanConfidence > 0 {
		analysis.ConfidenceAdjustment = clampRange(analysis.Accuracy/meanConfidence, 0.5, 1.5)
	}

	for mood, acc := range byMood {
		m := float64(acc.sessions)
		analysis.PerMood[mood] = MoodMetrics{
			Sessions:         acc.sessions,
			MeanMinutes:      acc.minutes / m,
			MeanSatisfaction: acc.satisfaction / m,
			CompletionRate:   float64(acc.completed) / m,
		}
	}
	return analysis, nil
}

// AnalyzeSystem aggregates across all users.
func (r *Recorder) AnalyzeSystem() (SystemAnalysis, error) {
	records, err := r.store.All()
	if err != nil {
		return SystemAnalysis{}, fmt.Errorf("load resonance records: %w", err)
	}
	if len(records) == 0 {
		return SystemAnalysis{}, nil
	}

	users := make(map[string]bool)
	matches := 0
	sumConfidence := 0.0
	for _, rec := range records {
		users[rec.UserID] = true
		if rec.PredictionMatch {
			matches++
		}
		sumConfidence += rec.Confidence
	}
	n := float64(len(records))
	return SystemAnalysis{
		Users:          len(users),
		Records:        len(records),
		Accuracy:       float64(matches) / n,
		MeanConfidence: sumConfidence / n,
	}, nil
}

// Recent returns the user's newest records, newest first, capped at
// limit (or all when limit <= 0).
func (r *Recorder) Recent(userID string, limit int) ([]SessionResonance, error) {
	records, err := r.store.ForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("load resonance records: %w", err)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].RecordedAt.After(records[j].RecordedAt)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// MoodSeries returns the user's reported moods in chronological order,
// for trend and forecast computation.
func (r *Recorder) MoodSeries(userID string) ([]models.Mood, error) {
	records, err := r.store.ForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("load resonance records: %w", err)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].RecordedAt.Before(records[j].RecordedAt)
	})
	series := make([]models.Mood, 0, len(records))
	for _, rec := range records {
		series = append(series, rec.ActualMood)
	}
	return series, nil
}

// Reset removes a user's resonance history.
func (r *Recorder) Reset(userID string) error {
	return r.store.DeleteUser(userID)
}

func clampRange(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
