// Ludoscope - Game Library Mood & Behavioral Prediction Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ludoscope

// Package feature reduces a behavioral signal set to the fixed
// five-dimensional normalized feature vector.
//
// Each feature is an independent sub-calculation reading only the signal
// kinds relevant to it. A feature with no relevant signals falls back to
// the neutral default 0.5, never 0: an unknown state must not bias mood
// inference toward any pole. It is the extraction confidence, not the
// feature values, that decays toward 0 as signal volume shrinks.
package feature

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/ludoscope/internal/models"
)

// Config contains configuration for the feature extractor.
type Config struct {
	// FullConfidenceSignals is the signal count at which count-based
	// confidence saturates at 1. Default: 20.
	FullConfidenceSignals int

	// RecencyHalfLife is the signal age at which recency-based
	// confidence halves. Default: 24h.
	RecencyHalfLife time.Duration

	// VolatilityCeiling is the coefficient of variation mapped to an
	// engagement volatility of 1. Default: 1.5.
	VolatilityCeiling float64
}

// DefaultConfig returns default extractor configuration.
func DefaultConfig() Config {
	return Config{
		FullConfidenceSignals: 20,
		RecencyHalfLife:       24 * time.Hour,
		VolatilityCeiling:     1.5,
	}
}

// Confidence reports how much the extracted features can be trusted.
type Confidence struct {
	// Overall is the combined count- and recency-based confidence in [0,1].
	Overall float64 `json:"overall"`

	// PerFeature maps feature names (models.FeatureNames order) to the
	// confidence contributed by that feature's relevant signals.
	PerFeature map[string]float64 `json:"per_feature"`
}

// Extractor computes normalized features from signal sets. Stateless;
// safe for concurrent use.
type Extractor struct {
	config Config
	logger zerolog.Logger
}

// NewExtractor creates a feature extractor.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewExtractor(cfg Config, logger zerolog.Logger) *Extractor {
	if cfg.FullConfidenceSignals <= 0 {
		cfg.FullConfidenceSignals = 20
	}
	if cfg.RecencyHalfLife <= 0 {
		cfg.RecencyHalfLife = 24 * time.Hour
	}
	if cfg.VolatilityCeiling <= 0 {
		cfg.VolatilityCeiling = 1.5
	}

	return &Extractor{
		config: cfg,
		logger: logger.With().Str("component", "feature").Logger(),
	}
}

// Extract computes the five-dimensional feature vector. All outputs are
// clamped to [0,1]; an empty signal set yields the neutral vector.
func (e *Extractor) Extract(signals []models.Signal) models.NormalizedFeatures {
	features := models.NormalizedFeatures{
		EngagementVolatility: e.engagementVolatility(signals),
		ChallengeSeeking:     e.challengeSeeking(signals),
		SocialOpenness:       e.socialOpenness(signals),
		ExplorationBias:      e.explorationBias(signals),
		FocusStability:       e.focusStability(signals),
	}
	return features.Clamp()
}

// ExtractConfidence computes the overall and per-feature extraction
// confidence from signal count and recency relative to now.
func (e *Extractor) ExtractConfidence(now time.Time, signals []models.Signal) Confidence {
	per := map[string]float64{
		"engagement_volatility": e.countConfidence(countSources(signals, models.SourceSession)),
		"challenge_seeking":     e.countConfidence(countSources(signals, models.SourceSession)),
		"social_openness":       e.countConfidence(countSources(signals, models.SourceSession, models.SourceIntegration)),
		"exploration_bias":      e.countConfidence(countSources(signals, models.SourceGenre)),
		"focus_stability":       e.countConfidence(countSources(signals, models.SourceSession, models.SourcePlaytime)),
	}

	overall := e.countConfidence(len(signals)) * e.recencyConfidence(now, signals)

	return Confidence{
		Overall:    models.Clamp01(overall),
		PerFeature: per,
	}
}

// Validate checks all feature values are within [0,1] and returns the
// list of violated invariants. The caller decides how to react; this
// never panics or errors.
func (e *Extractor) Validate(f models.NormalizedFeatures) []string {
	var issues []string
	for i, value := range f.AsSlice() {
		if value < 0 || value > 1 {
			issues = append(issues, fmt.Sprintf("%s out of range [0,1]: %g", models.FeatureNames()[i], value))
		}
		if math.IsNaN(value) {
			issues = append(issues, fmt.Sprintf("%s is NaN", models.FeatureNames()[i]))
		}
	}
	return issues
}

// engagementVolatility maps the coefficient of variation of session
// durations onto [0,1].
func (e *Extractor) engagementVolatility(signals []models.Signal) float64 {
	durations := sessionDurations(signals)
	if len(durations) < 2 {
		return 0.5
	}

	mean, std := meanStd(durations)
	if mean == 0 {
		return 0.5
	}
	return models.Clamp01((std / mean) / e.config.VolatilityCeiling)
}

// challengeSeeking averages session intensity, weighting completed
// high-intensity sessions slightly higher.
func (e *Extractor) challengeSeeking(signals []models.Signal) float64 {
	var sum, weight float64
	for _, sig := range signals {
		p, ok := sig.Payload.(models.SessionPayload)
		if !ok {
			continue
		}
		w := sig.Weight
		if p.Completed && p.Intensity > 0.7 {
			w *= 1.25
		}
		sum += p.Intensity * w
		weight += w
	}
	if weight == 0 {
		return 0.5
	}
	return models.Clamp01(sum / weight)
}

// socialOpenness measures the weighted share of social sessions and
// social integration activity.
func (e *Extractor) socialOpenness(signals []models.Signal) float64 {
	var social, total float64
	for _, sig := range signals {
		switch p := sig.Payload.(type) {
		case models.SessionPayload:
			total += sig.Weight
			if p.Social {
				social += sig.Weight
			}
		case models.IntegrationPayload:
			total += sig.Weight
			if p.Social {
				social += sig.Weight
			}
		}
	}
	if total == 0 {
		return 0.5
	}
	return models.Clamp01(social / total)
}

// explorationBias measures the rate of distinct genre transitions.
func (e *Extractor) explorationBias(signals []models.Signal) float64 {
	var distinct, total float64
	for _, sig := range signals {
		p, ok := sig.Payload.(models.GenrePayload)
		if !ok {
			continue
		}
		total++
		if p.Distinct {
			distinct++
		}
	}
	if total == 0 {
		return 0.5
	}
	return models.Clamp01(distinct / total)
}

// focusStability combines session completion rate with duration
// consistency.
func (e *Extractor) focusStability(signals []models.Signal) float64 {
	var completed, sessions float64
	for _, sig := range signals {
		p, ok := sig.Payload.(models.SessionPayload)
		if !ok {
			continue
		}
		sessions++
		if p.Completed {
			completed++
		}
	}
	if sessions == 0 {
		return 0.5
	}

	completionRate := completed / sessions

	durations := sessionDurations(signals)
	consistency := 1.0
	if len(durations) >= 2 {
		mean, std := meanStd(durations)
		if mean > 0 {
			consistency = 1 - math.Min(std/mean/e.config.VolatilityCeiling, 1)
		}
	}

	return models.Clamp01(0.6*completionRate + 0.4*consistency)
}

// countConfidence maps a relevant-signal count to [0,1], saturating at
// FullConfidenceSignals.
func (e *Extractor) countConfidence(n int) float64 {
	return models.Clamp01(float64(n) / float64(e.config.FullConfidenceSignals))
}

// countSources counts signals originating from any of the given sources.
func countSources(signals []models.Signal, sources ...models.SignalSource) int {
	var n int
	for _, sig := range signals {
		for _, src := range sources {
			if sig.Source == src {
				n++
				break
			}
		}
	}
	return n
}

// recencyConfidence decays exponentially with the mean signal age.
func (e *Extractor) recencyConfidence(now time.Time, signals []models.Signal) float64 {
	if len(signals) == 0 {
		return 0
	}
	var totalAge float64
	for _, sig := range signals {
		totalAge += now.Sub(sig.Timestamp).Hours()
	}
	meanAge := totalAge / float64(len(signals))
	if meanAge < 0 {
		meanAge = 0
	}
	halfLife := e.config.RecencyHalfLife.Hours()
	return math.Pow(0.5, meanAge/halfLife)
}

// sessionDurations collects durations from session payloads.
func sessionDurations(signals []models.Signal) []float64 {
	var durations []float64
	for _, sig := range signals {
		if p, ok := sig.Payload.(models.SessionPayload); ok {
			durations = append(durations, p.DurationMinutes)
		}
	}
	return durations
}

// meanStd returns the mean and population standard deviation.
func meanStd(values []float64) (mean, std float64) {
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}
