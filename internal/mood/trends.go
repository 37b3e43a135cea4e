// Ludoscope - Game Library Mood & Behavioral Prediction Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ludoscope

package mood

import (
	"fmt"
	"sort"
	"time"

	"github.com/tomtom215/ludoscope/internal/models"
)

// DayTrend is one day's dominant observed mood.
type DayTrend struct {
	Date     string      `json:"date"`
	Dominant models.Mood `json:"dominant"`
	Sessions int         `json:"sessions"`
}

// TrendAnalysis buckets a user's reported moods by day over a window.
type TrendAnalysis struct {
	UserID    string        `json:"user_id"`
	Timeframe time.Duration `json:"timeframe"`
	Days      []DayTrend    `json:"days"`
	Dominant  models.Mood   `json:"dominant"`
	Records   int           `json:"records"`
}

// Forecast is a heuristic next-mood estimate: observed mood frequency
// blended with the learned transition probability out of the most
// recent mood. It is a frequency model, not a time-series model.
type Forecast struct {
	UserID      string                  `json:"user_id"`
	Period      time.Duration           `json:"period"`
	Likely      models.Mood             `json:"likely"`
	Probability float64                 `json:"probability"`
	PerMood     map[models.Mood]float64 `json:"per_mood"`
	Basis       int                     `json:"basis"`
}

// AnalyzeMoodTrends aggregates the user's resonance history within the
// timeframe into per-day dominant moods.
func (e *Engine) AnalyzeMoodTrends(userID string, timeframe time.Duration) (TrendAnalysis, error) {
	records, err := e.recorder.Recent(userID, 0)
	if err != nil {
		return TrendAnalysis{}, e.forecastError(fmt.Errorf("load trend data: %w", err))
	}

	analysis := TrendAnalysis{UserID: userID, Timeframe: timeframe}
	cutoff := time.Now().Add(-timeframe)

	type dayCounts struct {
		counts map[models.Mood]int
		total  int
	}
	byDay := make(map[string]*dayCounts)
	overall := make(map[models.Mood]int)

	for _, rec := range records {
		if timeframe > 0 && rec.RecordedAt.Before(cutoff) {
			continue
		}
		analysis.Records++
		day := rec.RecordedAt.Format("2006-01-02")
		dc, ok := byDay[day]
		if !ok {
			dc = &dayCounts{counts: make(map[models.Mood]int)}
			byDay[day] = dc
		}
		dc.counts[rec.ActualMood]++
		dc.total++
		overall[rec.ActualMood]++
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)
	for _, day := range days {
		dc := byDay[day]
		analysis.Days = append(analysis.Days, DayTrend{
			Date:     day,
			Dominant: dominantMood(dc.counts),
			Sessions: dc.total,
		})
	}
	analysis.Dominant = dominantMood(overall)
	return analysis, nil
}

// AnalyzeMoodForecast estimates the user's likely mood over the coming
// period from reported mood frequency, shifted toward the transition
// probabilities out of the most recent mood when transitions exist.
func (e *Engine) AnalyzeMoodForecast(userID string, period time.Duration) (Forecast, error) {
	series, err := e.recorder.MoodSeries(userID)
	if err != nil {
		return Forecast{}, e.forecastError(fmt.Errorf("load forecast data: %w", err))
	}

	forecast := Forecast{
		UserID:  userID,
		Period:  period,
		PerMood: make(map[models.Mood]float64, len(models.Moods())),
		Basis:   len(series),
	}
	if len(series) == 0 {
		// No feedback yet: fall back to the pattern learner's view of
		// the user's recent sessions.
		prediction := e.PredictCurrentMood(userID)
		forecast.Likely = prediction.Mood
		forecast.Probability = prediction.Confidence
		if models.ValidMood(prediction.Mood) {
			forecast.PerMood[prediction.Mood] = prediction.Confidence
		}
		return forecast, nil
	}

	counts := make(map[models.Mood]int)
	for _, m := range series {
		counts[m]++
	}
	last := series[len(series)-1]
	n := float64(len(series))
	for _, m := range models.Moods() {
		frequency := float64(counts[m]) / n
		transition := e.analyzer.TransitionProbability(last, m)
		score := frequency
		if transition > 0 {
			score = (frequency + transition) / 2
		}
		if score > 0 {
			forecast.PerMood[m] = score
		}
	}

	best, bestScore := last, 0.0
	for _, m := range models.Moods() {
		if forecast.PerMood[m] > bestScore {
			best, bestScore = m, forecast.PerMood[m]
		}
	}
	forecast.Likely = best
	forecast.Probability = models.Clamp01(bestScore)
	return forecast, nil
}

// dominantMood returns the highest-count mood in canonical order.
func dominantMood(counts map[models.Mood]int) models.Mood {
	var best models.Mood
	bestCount := 0
	for _, m := range models.Moods() {
		if counts[m] > bestCount {
			best, bestCount = m, counts[m]
		}
	}
	return best
}
