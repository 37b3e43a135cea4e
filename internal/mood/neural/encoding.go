// Ludoscope - Game Library Mood & Behavioral Prediction Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ludoscope

package neural

import (
	"time"

	"github.com/tomtom215/ludoscope/internal/models"
)

// EncodedFeatureSize is the fixed classifier input dimension:
// 4 time features, 6 recent-game features, 6 mood-history features,
// and 4 aggregate session features.
const EncodedFeatureSize = 20

// recentWindow is the number of trailing sessions the encoder reads.
const recentWindow = 5

// encodeFeatures builds the 20-dimensional input vector for the
// classifier from the reference time and the trailing session window.
// Empty slots encode as 0; all values are in [0,1].
func (a *Analyzer) encodeFeatures(now time.Time, recent []models.PlaySession) []float64 {
	features := make([]float64, 0, EncodedFeatureSize)

	// Time features (4): hour, day of week, weekend flag, evening flag.
	features = append(features,
		float64(now.Hour())/23.0,
		float64(now.Weekday())/6.0,
		boolFeature(now.Weekday() == time.Saturday || now.Weekday() == time.Sunday),
		boolFeature(now.Hour() >= 18),
	)

	// Recent-game features (6): genre intensity and socialness of the
	// last three games, most recent first.
	for i := 0; i < 3; i++ {
		idx := len(recent) - 1 - i
		if idx < 0 {
			features = append(features, 0, 0)
			continue
		}
		genre := a.catalog[recent[idx].GameID].PrimaryGenre()
		features = append(features,
			models.GenreIntensity(genre),
			models.GenreSocialness(genre),
		)
	}

	// Mood-history features (6): the last five moods as normalized
	// axis indexes, plus the mean reported intensity of the window.
	moodIndex := make(map[models.Mood]int, len(models.Moods()))
	for i, m := range models.Moods() {
		moodIndex[m] = i
	}
	denominator := float64(len(models.Moods()) - 1)
	for i := 0; i < recentWindow; i++ {
		idx := len(recent) - 1 - i
		if idx < 0 || !models.ValidMood(recent[idx].Mood) {
			features = append(features, 0)
			continue
		}
		features = append(features, float64(moodIndex[recent[idx].Mood])/denominator)
	}
	features = append(features, meanIntensity(recent))

	// Aggregate session features (4): mean duration, completion rate,
	// window fill, mean intensity over the full window argument.
	features = append(features,
		normalize(meanDuration(recent), 180),
		completionRate(recent),
		normalize(float64(len(recent)), recentWindow*4),
		meanIntensity(recent),
	)

	return features
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func normalize(v, ceiling float64) float64 {
	if ceiling <= 0 {
		return 0
	}
	return models.Clamp01(v / ceiling)
}

func meanDuration(sessions []models.PlaySession) float64 {
	if len(sessions) == 0 {
		return 0
	}
	var total float64
	for _, s := range sessions {
		total += s.DurationMinutes()
	}
	return total / float64(len(sessions))
}

func meanIntensity(sessions []models.PlaySession) float64 {
	if len(sessions) == 0 {
		return 0
	}
	var total float64
	for _, s := range sessions {
		total += s.Intensity
	}
	return models.Clamp01(total / float64(len(sessions)))
}

func completionRate(sessions []models.PlaySession) float64 {
	if len(sessions) == 0 {
		return 0
	}
	var completed float64
	for _, s := range sessions {
		if s.Completed {
			completed++
		}
	}
	return completed / float64(len(sessions))
}
