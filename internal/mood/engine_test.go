// Ludoscope - Game Library Mood & Behavioral Prediction Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ludoscope

package mood_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/ludoscope/internal/models"
	"github.com/tomtom215/ludoscope/internal/mood"
	"github.com/tomtom215/ludoscope/internal/mood/suggest"
)

func testEngine(t *testing.T) *mood.Engine {
	t.Helper()
	catalog := suggest.NewMemoryCatalog(
		models.Game{ID: "g-arena", Title: "Arena Strike", Genres: []string{"shooter"}, Multiplayer: true, AverageSessionMinutes: 40},
		models.Game{ID: "g-blocks", Title: "Quiet Blocks", Genres: []string{"puzzle"}, AverageSessionMinutes: 25},
	)
	e, err := mood.NewEngine(mood.DefaultConfig(), catalog, mood.Stores{}, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

// competitiveEveningSessions builds identical high-intensity evening
// sessions against one game.
func competitiveEveningSessions(n int) []models.PlaySession {
	base := time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC)
	sessions := make([]models.PlaySession, 0, n)
	for i := 0; i < n; i++ {
		start := base.Add(time.Duration(i) * 24 * time.Hour)
		sessions = append(sessions, models.PlaySession{
			ID:        fmt.Sprintf("s%d", i),
			UserID:    "u1",
			GameID:    "g-arena",
			StartTime: start,
			EndTime:   start.Add(45 * time.Minute),
			Duration:  45 * time.Minute,
			Mood:      models.MoodCompetitive,
			Intensity: 0.9,
			Completed: true,
			Device:    "desktop",
		})
	}
	return sessions
}

func TestAnalyzeUserMoodEmptyHistory(t *testing.T) {
	t.Parallel()

	e := testEngine(t)
	analysis, err := e.AnalyzeUserMood(context.Background(), "u1", nil, nil, nil)
	if err != nil {
		t.Fatalf("AnalyzeUserMood() error = %v", err)
	}
	if analysis.SignalCount != 0 {
		t.Errorf("SignalCount = %d, want 0", analysis.SignalCount)
	}
	// No signals means neutral features and degraded confidence, never
	// an error.
	want := models.NeutralFeatures()
	if analysis.Features != want {
		t.Errorf("Features = %+v, want neutral defaults", analysis.Features)
	}
	if analysis.Confidence != 0 {
		t.Errorf("Confidence = %.3f, want 0 with no signals", analysis.Confidence)
	}
}

func TestAnalyzeUserMoodCompetitiveHistory(t *testing.T) {
	t.Parallel()

	e := testEngine(t)
	sessions := competitiveEveningSessions(10)
	games := []models.Game{{ID: "g-arena", Title: "Arena Strike", Genres: []string{"shooter"}}}

	analysis, err := e.AnalyzeUserMood(context.Background(), "u1", sessions, games, nil)
	if err != nil {
		t.Fatalf("AnalyzeUserMood() error = %v", err)
	}

	for _, m := range models.Moods() {
		if v := analysis.Vector.Get(m); v < 0 || v > 1 {
			t.Errorf("mood %s value %.3f outside [0,1]", m, v)
		}
	}
	if analysis.SignalCount == 0 {
		t.Error("SignalCount = 0, want signals from 10 sessions")
	}
	if issues := e.ValidateAnalysis(analysis); len(issues) != 0 {
		t.Errorf("ValidateAnalysis() = %v, want no issues", issues)
	}
}

func TestEndToEndCompetitivePattern(t *testing.T) {
	t.Parallel()

	e := testEngine(t)
	sessions := competitiveEveningSessions(10)

	if _, err := e.AnalyzeUserMood(context.Background(), "u1", sessions, nil, nil); err != nil {
		t.Fatalf("AnalyzeUserMood() error = %v", err)
	}

	data, err := e.ExportMoodData("u1")
	if err != nil {
		t.Fatalf("ExportMoodData() error = %v", err)
	}
	if len(data) == 0 {
		t.Fatal("ExportMoodData() returned empty payload")
	}

	stats := e.MoodAnalysisStats("u1")
	if stats.MoodPatterns == 0 {
		t.Error("MoodPatterns = 0, want the competitive pattern learned")
	}
	if stats.Sessions != 10 {
		t.Errorf("Sessions = %d, want 10", stats.Sessions)
	}
}

func TestCurrentMoodNeutralDefault(t *testing.T) {
	t.Parallel()

	e := testEngine(t)
	current := e.CurrentMood("unknown-user")
	if !current.Neutral {
		t.Error("CurrentMood() for unknown user not flagged neutral")
	}
	if current.Confidence != 0 {
		t.Errorf("neutral Confidence = %.2f, want 0", current.Confidence)
	}
	// Neutral features through the sigmoid land every axis at exactly 0.5.
	for _, m := range models.Moods() {
		if v := current.Vector.Get(m); v != 0.5 {
			t.Errorf("neutral mood %s = %.3f, want 0.5", m, v)
		}
	}
}

func TestUpdateMoodAnalysisInvalidatesSuggestions(t *testing.T) {
	t.Parallel()

	e := testEngine(t)
	sctx := suggest.Context{
		UserID:           "u1",
		Now:              time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC),
		Mood:             models.MoodCompetitive,
		Energy:           0.8,
		Device:           "desktop",
		AvailableMinutes: 60,
		SocialDesire:     0.7,
	}

	first, err := e.Suggest(context.Background(), sctx)
	if err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}
	if len(first) == 0 {
		t.Fatal("Suggest() returned no suggestions")
	}

	session := competitiveEveningSessions(1)[0]
	if err := e.UpdateMoodAnalysis(context.Background(), "u1", session, nil); err != nil {
		t.Fatalf("UpdateMoodAnalysis() error = %v", err)
	}

	// The update must have invalidated the cached list; the recompute
	// still succeeds.
	second, err := e.Suggest(context.Background(), sctx)
	if err != nil {
		t.Fatalf("Suggest() after update error = %v", err)
	}
	if len(second) == 0 {
		t.Error("Suggest() after update returned no suggestions")
	}

	stats := e.MoodAnalysisStats("u1")
	if stats.BehaviorSessions != 1 {
		t.Errorf("BehaviorSessions = %d, want 1", stats.BehaviorSessions)
	}
}

func TestUpdateMoodAnalysisCountsEachSessionOnce(t *testing.T) {
	t.Parallel()

	e := testEngine(t)
	sessions := competitiveEveningSessions(11)
	if _, err := e.AnalyzeUserMood(context.Background(), "u1", sessions[:10], nil, nil); err != nil {
		t.Fatalf("AnalyzeUserMood() error = %v", err)
	}
	if err := e.UpdateMoodAnalysis(context.Background(), "u1", sessions[10], nil); err != nil {
		t.Fatalf("UpdateMoodAnalysis() error = %v", err)
	}

	data, err := e.ExportMoodData("u1")
	if err != nil {
		t.Fatalf("ExportMoodData() error = %v", err)
	}
	var export mood.Export
	if err := json.Unmarshal(data, &export); err != nil {
		t.Fatalf("Unmarshal export: %v", err)
	}

	found := false
	for _, p := range export.Patterns {
		if p.Mood != models.MoodCompetitive {
			continue
		}
		found = true
		// The session already observed through AnalyzeUserMood must not
		// be counted again as transition context for the update.
		if p.Observations != 11 {
			t.Errorf("competitive Observations = %d, want 11", p.Observations)
		}
	}
	if !found {
		t.Fatal("no competitive pattern in export")
	}
}

func TestResonanceFeedbackLoop(t *testing.T) {
	t.Parallel()

	e := testEngine(t)
	sessions := competitiveEveningSessions(10)
	if _, err := e.AnalyzeUserMood(context.Background(), "u1", sessions, nil, nil); err != nil {
		t.Fatalf("AnalyzeUserMood() error = %v", err)
	}

	// First a diverging report, then matching ones: accuracy must rise.
	predicted := e.CurrentMood("u1").Dominance.Primary
	diverging := models.MoodSocial
	if predicted == diverging {
		diverging = models.MoodCalm
	}
	if _, err := e.RecordSessionResonance("u1", "s0", sessions[0], diverging); err != nil {
		t.Fatalf("RecordSessionResonance() error = %v", err)
	}
	before, err := e.UserResonanceAnalysis("u1")
	if err != nil {
		t.Fatalf("UserResonanceAnalysis() error = %v", err)
	}

	for i := 1; i < 4; i++ {
		if _, err := e.RecordSessionResonance("u1", fmt.Sprintf("s%d", i), sessions[i], predicted); err != nil {
			t.Fatalf("RecordSessionResonance() error = %v", err)
		}
	}
	after, err := e.UserResonanceAnalysis("u1")
	if err != nil {
		t.Fatalf("UserResonanceAnalysis() error = %v", err)
	}
	if after.Accuracy <= before.Accuracy {
		t.Errorf("accuracy did not rise: before %.2f, after %.2f", before.Accuracy, after.Accuracy)
	}

	recent, err := e.RecentResonanceSessions("u1", 2)
	if err != nil {
		t.Fatalf("RecentResonanceSessions() error = %v", err)
	}
	if len(recent) != 2 {
		t.Errorf("len(RecentResonanceSessions) = %d, want 2", len(recent))
	}
}

func TestTrendsAndForecast(t *testing.T) {
	t.Parallel()

	e := testEngine(t)
	sessions := competitiveEveningSessions(5)
	if _, err := e.AnalyzeUserMood(context.Background(), "u1", sessions, nil, nil); err != nil {
		t.Fatalf("AnalyzeUserMood() error = %v", err)
	}
	for i, s := range sessions {
		if _, err := e.RecordSessionResonance("u1", fmt.Sprintf("s%d", i), s, models.MoodCompetitive); err != nil {
			t.Fatalf("RecordSessionResonance() error = %v", err)
		}
	}

	trends, err := e.AnalyzeMoodTrends("u1", 0)
	if err != nil {
		t.Fatalf("AnalyzeMoodTrends() error = %v", err)
	}
	if trends.Dominant != models.MoodCompetitive {
		t.Errorf("trend Dominant = %s, want competitive", trends.Dominant)
	}
	if trends.Records != 5 {
		t.Errorf("trend Records = %d, want 5", trends.Records)
	}

	forecast, err := e.AnalyzeMoodForecast("u1", 24*time.Hour)
	if err != nil {
		t.Fatalf("AnalyzeMoodForecast() error = %v", err)
	}
	if forecast.Likely != models.MoodCompetitive {
		t.Errorf("forecast Likely = %s, want competitive", forecast.Likely)
	}
	if forecast.Probability <= 0 || forecast.Probability > 1 {
		t.Errorf("forecast Probability = %.2f, want in (0,1]", forecast.Probability)
	}

	series, err := e.ResonanceDataForForecasting("u1")
	if err != nil {
		t.Fatalf("ResonanceDataForForecasting() error = %v", err)
	}
	if len(series) != 5 {
		t.Errorf("len(series) = %d, want 5", len(series))
	}
}

func TestResetUserMoodData(t *testing.T) {
	t.Parallel()

	e := testEngine(t)
	sessions := competitiveEveningSessions(3)
	if _, err := e.AnalyzeUserMood(context.Background(), "u1", sessions, nil, nil); err != nil {
		t.Fatalf("AnalyzeUserMood() error = %v", err)
	}
	if err := e.UpdateMoodAnalysis(context.Background(), "u1", sessions[0], nil); err != nil {
		t.Fatalf("UpdateMoodAnalysis() error = %v", err)
	}

	if err := e.ResetUserMoodData("u1"); err != nil {
		t.Fatalf("ResetUserMoodData() error = %v", err)
	}

	if !e.CurrentMood("u1").Neutral {
		t.Error("CurrentMood() after reset not neutral")
	}
	stats := e.MoodAnalysisStats("u1")
	if stats.Sessions != 0 || stats.BehaviorSessions != 0 || stats.ResonanceRecords != 0 {
		t.Errorf("per-user stats after reset = %+v, want zeros", stats)
	}
}

func TestAnalyzeUserMoodEmptyUserID(t *testing.T) {
	t.Parallel()

	e := testEngine(t)
	_, err := e.AnalyzeUserMood(context.Background(), "", nil, nil, nil)
	if !errors.Is(err, mood.ErrAnalysisFailed) {
		t.Errorf("AnalyzeUserMood(\"\") error = %v, want ErrAnalysisFailed", err)
	}
}

func TestHealthCheck(t *testing.T) {
	t.Parallel()

	e := testEngine(t)
	health := e.HealthCheck()
	if health.Status != "ok" {
		t.Errorf("Status = %q, want ok", health.Status)
	}
	if health.Components["network"] != "untrained" {
		t.Errorf("network state = %q, want untrained", health.Components["network"])
	}
}
