// Ludoscope - Game Library Mood & Behavioral Prediction Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ludoscope

package models

// Mood identifies one of the five independent mood axes.
type Mood string

const (
	// MoodCalm indicates relaxed, low-stakes play.
	MoodCalm Mood = "calm"
	// MoodCompetitive indicates challenge- and ranking-driven play.
	MoodCompetitive Mood = "competitive"
	// MoodCurious indicates exploration- and novelty-driven play.
	MoodCurious Mood = "curious"
	// MoodSocial indicates play motivated by other people.
	MoodSocial Mood = "social"
	// MoodFocused indicates deep, sustained single-activity play.
	MoodFocused Mood = "focused"
)

// Moods returns all mood axes in canonical order. The order is load-bearing:
// it defines the output layer indexing of the neural analyzer.
func Moods() []Mood {
	return []Mood{MoodCalm, MoodCompetitive, MoodCurious, MoodSocial, MoodFocused}
}

// ValidMood reports whether m is one of the five known moods.
func ValidMood(m Mood) bool {
	switch m {
	case MoodCalm, MoodCompetitive, MoodCurious, MoodSocial, MoodFocused:
		return true
	default:
		return false
	}
}

// MoodVector holds the five independent affect-intensity scores.
// Axes are not mutually exclusive and the vector is not a simplex:
// a session can be simultaneously calm and curious. All values are
// clamped to [0,1] by producers.
type MoodVector struct {
	Calm        float64 `json:"calm"`
	Competitive float64 `json:"competitive"`
	Curious     float64 `json:"curious"`
	Social      float64 `json:"social"`
	Focused     float64 `json:"focused"`
}

// Get returns the score for the given mood axis.
func (v MoodVector) Get(m Mood) float64 {
	switch m {
	case MoodCalm:
		return v.Calm
	case MoodCompetitive:
		return v.Competitive
	case MoodCurious:
		return v.Curious
	case MoodSocial:
		return v.Social
	case MoodFocused:
		return v.Focused
	default:
		return 0
	}
}

// Set assigns the score for the given mood axis, clamped to [0,1].
func (v *MoodVector) Set(m Mood, score float64) {
	score = Clamp01(score)
	switch m {
	case MoodCalm:
		v.Calm = score
	case MoodCompetitive:
		v.Competitive = score
	case MoodCurious:
		v.Curious = score
	case MoodSocial:
		v.Social = score
	case MoodFocused:
		v.Focused = score
	}
}

// Clamp returns a copy with every axis clamped to [0,1].
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (v MoodVector) Clamp() MoodVector {
	return MoodVector{
		Calm:        Clamp01(v.Calm),
		Competitive: Clamp01(v.Competitive),
		Curious:     Clamp01(v.Curious),
		Social:      Clamp01(v.Social),
		Focused:     Clamp01(v.Focused),
	}
}

// Dominant returns the argmax axis of the vector. Ties resolve to the
// earlier axis in canonical order, which keeps selection deterministic.
func (v MoodVector) Dominant() Mood {
	best := MoodCalm
	bestScore := v.Calm
	for _, m := range Moods()[1:] {
		if score := v.Get(m); score > bestScore {
			best, bestScore = m, score
		}
	}
	return best
}

// NormalizedFeatures is the fixed five-dimensional behavioral feature
// record produced by the feature extractor. All fields are in [0,1];
// 0.5 is the documented neutral default for features with no evidence.
type NormalizedFeatures struct {
	// EngagementVolatility measures variance in session durations.
	EngagementVolatility float64 `json:"engagement_volatility"`

	// ChallengeSeeking measures preference for high-intensity play.
	ChallengeSeeking float64 `json:"challenge_seeking"`

	// SocialOpenness measures multiplayer and social activity share.
	SocialOpenness float64 `json:"social_openness"`

	// ExplorationBias measures genre and title variety.
	ExplorationBias float64 `json:"exploration_bias"`

	// FocusStability measures session completion and length consistency.
	FocusStability float64 `json:"focus_stability"`
}

// NeutralFeatures returns the documented neutral feature vector used
// when no signals are available. Neutral is 0.5 on every axis so that
// an unknown state does not bias mood inference toward any pole.
func NeutralFeatures() NormalizedFeatures {
	return NormalizedFeatures{
		EngagementVolatility: 0.5,
		ChallengeSeeking:     0.5,
		SocialOpenness:       0.5,
		ExplorationBias:      0.5,
		FocusStability:       0.5,
	}
}

// AsSlice returns the features in declaration order.
func (f NormalizedFeatures) AsSlice() []float64 {
	return []float64{
		f.EngagementVolatility,
		f.ChallengeSeeking,
		f.SocialOpenness,
		f.ExplorationBias,
		f.FocusStability,
	}
}

// Clamp returns a copy with every feature clamped to [0,1].
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (f NormalizedFeatures) Clamp() NormalizedFeatures {
	return NormalizedFeatures{
		EngagementVolatility: Clamp01(f.EngagementVolatility),
		ChallengeSeeking:     Clamp01(f.ChallengeSeeking),
		SocialOpenness:       Clamp01(f.SocialOpenness),
		ExplorationBias:      Clamp01(f.ExplorationBias),
		FocusStability:       Clamp01(f.FocusStability),
	}
}

// FeatureNames returns the feature field names in declaration order,
// matching AsSlice indexing.
func FeatureNames() []string {
	return []string{
		"engagement_volatility",
		"challenge_seeking",
		"social_openness",
		"exploration_bias",
		"focus_stability",
	}
}

// Clamp01 clamps x to [0,1].
func Clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
