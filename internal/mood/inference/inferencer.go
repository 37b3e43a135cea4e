// Ludoscope - Game Library Mood & Behavioral Prediction Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ludoscope

// Package inference maps normalized features to a mood vector through a
// weighted linear combination and a logistic activation per axis.
//
// Axes are computed independently and are not mutually exclusive: a
// session can score high on both calm and curious. The weight table is
// a mutable policy object adjusted online from resonance feedback; the
// adjustment is gradient-free supervised tuning, not backpropagation.
package inference

import (
	"math"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tomtom215/ludoscope/internal/models"
)

// Config contains configuration for the mood inferencer.
type Config struct {
	// Steepness is the logistic activation steepness. Default: 4.0.
	Steepness float64

	// SecondaryMargin is the maximum gap between the top two mood
	// scores for the runner-up to be reported as secondary.
	// Default: 0.1.
	SecondaryMargin float64

	// AdjustStep is the per-feedback weight nudge. Default: 0.05.
	AdjustStep float64

	// MinWeight and MaxWeight bound every weight after adjustment.
	// Defaults: -2.0 and 2.0.
	MinWeight float64
	MaxWeight float64
}

// DefaultConfig returns default inferencer configuration.
func DefaultConfig() Config {
	return Config{
		Steepness:       4.0,
		SecondaryMargin: 0.1,
		AdjustStep:      0.05,
		MinWeight:       -2.0,
		MaxWeight:       2.0,
	}
}

// WeightTable maps each mood axis to the feature weights used in its
// linear combination. Weights apply to features centered on the neutral
// value 0.5, so a negative weight means the feature argues against the
// mood.
type WeightTable map[models.Mood]models.NormalizedFeatures

// DefaultWeights returns the default mood inference weight table.
func DefaultWeights() WeightTable {
	return WeightTable{
		models.MoodCalm: {
			EngagementVolatility: -1.0,
			ChallengeSeeking:     -0.8,
			SocialOpenness:       -0.2,
			ExplorationBias:      0.2,
			FocusStability:       0.6,
		},
		models.MoodCompetitive: {
			EngagementVolatility: 0.3,
			ChallengeSeeking:     1.2,
			SocialOpenness:       0.4,
			ExplorationBias:      -0.4,
			FocusStability:       0.5,
		},
		models.MoodCurious: {
			EngagementVolatility: 0.4,
			ChallengeSeeking:     0.1,
			SocialOpenness:       0.1,
			ExplorationBias:      1.2,
			FocusStability:       -0.3,
		},
		models.MoodSocial: {
			EngagementVolatility: 0.1,
			ChallengeSeeking:     0.2,
			SocialOpenness:       1.3,
			ExplorationBias:      0.3,
			FocusStability:       -0.2,
		},
		models.MoodFocused: {
			EngagementVolatility: -0.6,
			ChallengeSeeking:     0.4,
			SocialOpenness:       -0.4,
			ExplorationBias:      -0.3,
			FocusStability:       1.2,
		},
	}
}

// clone returns a deep copy of the table.
func (w WeightTable) clone() WeightTable {
	out := make(WeightTable, len(w))
	for mood, weights := range w {
		out[mood] = weights
	}
	return out
}

// Dominance describes the dominant mood of a vector, with the runner-up
// reported as secondary when it falls within the configured margin.
type Dominance struct {
	Primary        models.Mood `json:"primary"`
	PrimaryScore   float64     `json:"primary_score"`
	Secondary      models.Mood `json:"secondary,omitempty"`
	SecondaryScore float64     `json:"secondary_score,omitempty"`
	HasSecondary   bool        `json:"has_secondary"`
}

// Feedback reports a mismatch between a predicted and an actual mood,
// together with the features that produced the prediction.
type Feedback struct {
	Predicted models.Mood
	Actual    models.Mood
	Features  models.NormalizedFeatures
}

// Inferencer maps features to mood vectors. Safe for concurrent use;
// the weight table is guarded by a mutex.
type Inferencer struct {
	config Config
	logger zerolog.Logger

	mu      sync.RWMutex
	weights WeightTable
}

// NewInferencer creates a mood inferencer with the default weight table.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewInferencer(cfg Config, logger zerolog.Logger) *Inferencer {
	if cfg.Steepness <= 0 {
		cfg.Steepness = 4.0
	}
	if cfg.SecondaryMargin <= 0 {
		cfg.SecondaryMargin = 0.1
	}
	if cfg.AdjustStep <= 0 {
		cfg.AdjustStep = 0.05
	}
	if cfg.MinWeight == 0 && cfg.MaxWeight == 0 {
		cfg.MinWeight, cfg.MaxWeight = -2.0, 2.0
	}

	return &Inferencer{
		config:  cfg,
		logger:  logger.With().Str("component", "inference").Logger(),
		weights: DefaultWeights(),
	}
}

// Infer computes the mood vector using the inferencer's current weights.
// Deterministic: identical features and weights always produce an
// identical vector.
func (i *Inferencer) Infer(f models.NormalizedFeatures) models.MoodVector {
	i.mu.RLock()
	weights := i.weights
	i.mu.RUnlock()
	return i.InferWith(f, weights)
}

// InferWith computes the mood vector using a caller-supplied weight
// table, falling back to the defaults for missing moods.
func (i *Inferencer) InferWith(f models.NormalizedFeatures, weights WeightTable) models.MoodVector {
	f = f.Clamp()

	var v models.MoodVector
	for _, mood := range models.Moods() {
		w, ok := weights[mood]
		if !ok {
			w = DefaultWeights()[mood]
		}
		v.Set(mood, i.axisScore(f, w))
	}
	return v
}

// axisScore computes one mood axis: a weighted sum of centered features
// through a logistic activation. Neutral features score exactly 0.5.
func (i *Inferencer) axisScore(f models.NormalizedFeatures, w models.NormalizedFeatures) float64 {
	features := f.AsSlice()
	weights := w.AsSlice()

	var sum float64
	for j := range features {
		sum += weights[j] * (features[j] - 0.5)
	}
	return sigmoid(i.config.Steepness * sum)
}

// Dominant returns the argmax mood and, when the runner-up is within
// SecondaryMargin, the secondary mood. Idempotent for a given vector.
func (i *Inferencer) Dominant(v models.MoodVector) Dominance {
	primary := v.Dominant()
	primaryScore := v.Get(primary)

	var secondary models.Mood
	secondaryScore := -1.0
	for _, mood := range models.Moods() {
		if mood == primary {
			continue
		}
		if score := v.Get(mood); score > secondaryScore {
			secondary, secondaryScore = mood, score
		}
	}

	d := Dominance{
		Primary:      primary,
		PrimaryScore: primaryScore,
	}
	if primaryScore-secondaryScore <= i.config.SecondaryMargin {
		d.Secondary = secondary
		d.SecondaryScore = secondaryScore
		d.HasSecondary = true
	}
	return d
}

// Confidence combines feature-extraction confidence with mood ambiguity
// (top-two closeness lowers confidence) and feature consistency (higher
// variance across input features lowers confidence).
func (i *Inferencer) Confidence(featureConfidence float64, v models.MoodVector, f models.NormalizedFeatures) float64 {
	d := i.Dominant(v)

	margin := d.PrimaryScore
	for _, mood := range models.Moods() {
		if mood == d.Primary {
			continue
		}
		if gap := d.PrimaryScore - v.Get(mood); gap < margin {
			margin = gap
		}
	}
	ambiguity := 0.5 + 0.5*math.Min(margin/0.25, 1)

	variance := featureVariance(f)
	consistency := 1 - math.Min(variance*2, 0.5)

	return models.Clamp01(featureConfidence * ambiguity * consistency)
}

// AdjustWeights applies one gradient-free tuning step from a feedback
// record. When predicted and actual moods diverge, the weight of the
// actual mood on its most-contributing feature is nudged so those
// features argue harder for the actual mood next time, and the predicted
// mood's same weight is nudged the other way. All weights stay within
// [MinWeight, MaxWeight].
func (i *Inferencer) AdjustWeights(fb Feedback) {
	if fb.Predicted == fb.Actual || !models.ValidMood(fb.Actual) {
		return
	}

	idx, deviation := mostContributingFeature(fb.Features)
	if deviation == 0 {
		return
	}

	direction := 1.0
	if deviation < 0 {
		direction = -1.0
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	i.weights = i.weights.clone()

	actual := i.weights[fb.Actual]
	setFeatureWeight(&actual, idx, i.clampWeight(featureWeight(actual, idx)+direction*i.config.AdjustStep))
	i.weights[fb.Actual] = actual

	if models.ValidMood(fb.Predicted) {
		predicted := i.weights[fb.Predicted]
		setFeatureWeight(&predicted, idx, i.clampWeight(featureWeight(predicted, idx)-direction*i.config.AdjustStep))
		i.weights[fb.Predicted] = predicted
	}

	i.logger.Debug().
		Str("actual", string(fb.Actual)).
		Str("predicted", string(fb.Predicted)).
		Str("feature", models.FeatureNames()[idx]).
		Msg("inference weights adjusted")
}

// Weights returns a snapshot of the current weight table.
func (i *Inferencer) Weights() WeightTable {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.weights.clone()
}

// SetWeights replaces the weight table, clamping every entry.
func (i *Inferencer) SetWeights(w WeightTable) {
	clamped := make(WeightTable, len(w))
	for mood, weights := range w {
		for idx := 0; idx < 5; idx++ {
			setFeatureWeight(&weights, idx, i.clampWeight(featureWeight(weights, idx)))
		}
		clamped[mood] = weights
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	i.weights = clamped
}

func (i *Inferencer) clampWeight(w float64) float64 {
	return math.Max(i.config.MinWeight, math.Min(i.config.MaxWeight, w))
}

// mostContributingFeature returns the index and centered deviation of
// the feature farthest from neutral.
func mostContributingFeature(f models.NormalizedFeatures) (int, float64) {
	idx := 0
	best := 0.0
	for j, v := range f.AsSlice() {
		if d := math.Abs(v - 0.5); d > math.Abs(best) {
			idx = j
			best = v - 0.5
		}
	}
	return idx, best
}

// featureWeight reads the weight at AsSlice index idx.
func featureWeight(w models.NormalizedFeatures, idx int) float64 {
	return w.AsSlice()[idx]
}

// setFeatureWeight writes the weight at AsSlice index idx.
func setFeatureWeight(w *models.NormalizedFeatures, idx int, value float64) {
	switch idx {
	case 0:
		w.EngagementVolatility = value
	case 1:
		w.ChallengeSeeking = value
	case 2:
		w.SocialOpenness = value
	case 3:
		w.ExplorationBias = value
	case 4:
		w.FocusStability = value
	}
}

// featureVariance returns the population variance across the five features.
func featureVariance(f models.NormalizedFeatures) float64 {
	values := f.AsSlice()
	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	return variance / float64(len(values))
}

// sigmoid is the logistic function.
func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
