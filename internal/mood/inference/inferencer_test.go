// Ludoscope - Game Library Mood & Behavioral Prediction Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ludoscope

package inference

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/ludoscope/internal/models"
)

func TestInferDeterministicAndInRange(t *testing.T) {
	t.Parallel()

	i := NewInferencer(DefaultConfig(), zerolog.Nop())

	tests := []struct {
		name     string
		features models.NormalizedFeatures
	}{
		{name: "neutral", features: models.NeutralFeatures()},
		{
			name: "competitive profile",
			features: models.NormalizedFeatures{
				EngagementVolatility: 0.6,
				ChallengeSeeking:     0.95,
				SocialOpenness:       0.4,
				ExplorationBias:      0.2,
				FocusStability:       0.7,
			},
		},
		{
			name: "out of range input is clamped",
			features: models.NormalizedFeatures{
				EngagementVolatility: -1,
				ChallengeSeeking:     2,
				SocialOpenness:       0.5,
				ExplorationBias:      0.5,
				FocusStability:       0.5,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			first := i.Infer(tt.features)
			second := i.Infer(tt.features)
			if first != second {
				t.Errorf("non-deterministic inference: %+v vs %+v", first, second)
			}

			for _, mood := range models.Moods() {
				if s := first.Get(mood); s < 0 || s > 1 {
					t.Errorf("%s score = %g, want within [0,1]", mood, s)
				}
			}
		})
	}
}

func TestInferNeutralFeaturesScoreHalf(t *testing.T) {
	t.Parallel()

	i := NewInferencer(DefaultConfig(), zerolog.Nop())

	v := i.Infer(models.NeutralFeatures())
	for _, mood := range models.Moods() {
		if s := v.Get(mood); s != 0.5 {
			t.Errorf("%s = %g on neutral features, want exactly 0.5", mood, s)
		}
	}
}

func TestInferChallengeProfileIsCompetitive(t *testing.T) {
	t.Parallel()

	i := NewInferencer(DefaultConfig(), zerolog.Nop())

	v := i.Infer(models.NormalizedFeatures{
		EngagementVolatility: 0.5,
		ChallengeSeeking:     1.0,
		SocialOpenness:       0.5,
		ExplorationBias:      0.3,
		FocusStability:       0.6,
	})

	if got := v.Dominant(); got != models.MoodCompetitive {
		t.Errorf("dominant = %s, want competitive (vector %+v)", got, v)
	}
}

func TestDominantIdempotentWithSecondary(t *testing.T) {
	t.Parallel()

	i := NewInferencer(DefaultConfig(), zerolog.Nop())
	v := models.MoodVector{Calm: 0.8, Competitive: 0.75, Curious: 0.3, Social: 0.2, Focused: 0.1}

	first := i.Dominant(v)
	second := i.Dominant(v)
	if first != second {
		t.Errorf("Dominant not idempotent: %+v vs %+v", first, second)
	}

	if first.Primary != models.MoodCalm {
		t.Errorf("primary = %s, want calm", first.Primary)
	}
	if !first.HasSecondary || first.Secondary != models.MoodCompetitive {
		t.Errorf("secondary = %+v, want competitive within margin", first)
	}

	far := models.MoodVector{Calm: 0.9, Competitive: 0.3, Curious: 0.3, Social: 0.2, Focused: 0.1}
	if d := i.Dominant(far); d.HasSecondary {
		t.Errorf("secondary reported outside margin: %+v", d)
	}
}

func TestConfidenceLowerWhenAmbiguous(t *testing.T) {
	t.Parallel()

	i := NewInferencer(DefaultConfig(), zerolog.Nop())
	features := models.NeutralFeatures()

	clear := models.MoodVector{Calm: 0.9, Competitive: 0.2, Curious: 0.2, Social: 0.2, Focused: 0.2}
	ambiguous := models.MoodVector{Calm: 0.9, Competitive: 0.89, Curious: 0.2, Social: 0.2, Focused: 0.2}

	clearConf := i.Confidence(1.0, clear, features)
	ambiguousConf := i.Confidence(1.0, ambiguous, features)
	if ambiguousConf >= clearConf {
		t.Errorf("ambiguous confidence %g >= clear %g", ambiguousConf, clearConf)
	}
}

func TestConfidenceLowerWithInconsistentFeatures(t *testing.T) {
	t.Parallel()

	i := NewInferencer(DefaultConfig(), zerolog.Nop())
	v := models.MoodVector{Calm: 0.9, Competitive: 0.2, Curious: 0.2, Social: 0.2, Focused: 0.2}

	consistent := i.Confidence(1.0, v, models.NeutralFeatures())
	scattered := i.Confidence(1.0, v, models.NormalizedFeatures{
		EngagementVolatility: 1.0,
		ChallengeSeeking:     0.0,
		SocialOpenness:       1.0,
		ExplorationBias:      0.0,
		FocusStability:       1.0,
	})

	if scattered >= consistent {
		t.Errorf("scattered-feature confidence %g >= consistent %g", scattered, consistent)
	}
}

func TestAdjustWeightsMonotoneAndBounded(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	i := NewInferencer(cfg, zerolog.Nop())

	// Challenge-seeking is the most-contributing feature, above neutral.
	fb := Feedback{
		Predicted: models.MoodCalm,
		Actual:    models.MoodCompetitive,
		Features: models.NormalizedFeatures{
			EngagementVolatility: 0.5,
			ChallengeSeeking:     0.9,
			SocialOpenness:       0.5,
			ExplorationBias:      0.5,
			FocusStability:       0.5,
		},
	}

	before := i.Weights()[models.MoodCompetitive].ChallengeSeeking

	for n := 0; n < 200; n++ {
		i.AdjustWeights(fb)
	}

	after := i.Weights()[models.MoodCompetitive].ChallengeSeeking
	if after < before {
		t.Errorf("actual-mood weight decreased: %g -> %g", before, after)
	}
	if after > cfg.MaxWeight {
		t.Errorf("weight %g exceeds bound %g after repeated adjustment", after, cfg.MaxWeight)
	}

	predicted := i.Weights()[models.MoodCalm].ChallengeSeeking
	if predicted < cfg.MinWeight {
		t.Errorf("predicted-mood weight %g below bound %g", predicted, cfg.MinWeight)
	}
}

func TestAdjustWeightsNoopWhenMatching(t *testing.T) {
	t.Parallel()

	i := NewInferencer(DefaultConfig(), zerolog.Nop())
	before := i.Weights()

	i.AdjustWeights(Feedback{
		Predicted: models.MoodCalm,
		Actual:    models.MoodCalm,
		Features:  models.NormalizedFeatures{ChallengeSeeking: 0.9},
	})

	after := i.Weights()
	for _, mood := range models.Moods() {
		if before[mood] != after[mood] {
			t.Errorf("weights for %s changed on matching feedback", mood)
		}
	}
}
