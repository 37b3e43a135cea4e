// Ludoscope - Game Library Mood & Behavioral Prediction Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ludoscope

package resonance

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/ludoscope/internal/models"
)

func record(userID string, predicted, actual models.Mood, confidence float64, at time.Time) SessionResonance {
	return SessionResonance{
		UserID:         userID,
		SessionID:      "s-" + at.Format("150405"),
		GameID:         "g1",
		PredictedMood:  predicted,
		ActualMood:     actual,
		Confidence:     confidence,
		Satisfaction:   0.7,
		SessionMinutes: 45,
		Completed:      true,
		RecordedAt:     at,
	}
}

func TestRecordAssignsIDAndMatch(t *testing.T) {
	t.Parallel()

	r := NewRecorder(NewMemoryStore(), zerolog.Nop())
	stored, err := r.Record(record("u1", models.MoodCalm, models.MoodCalm, 0.8, time.Now()))
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if stored.ID == "" {
		t.Error("Record() did not assign an id")
	}
	if !stored.PredictionMatch {
		t.Error("PredictionMatch = false for matching moods")
	}
}

func TestRecordRejectsInvalidMood(t *testing.T) {
	t.Parallel()

	r := NewRecorder(NewMemoryStore(), zerolog.Nop())
	rec := record("u1", models.MoodCalm, models.Mood("elated"), 0.8, time.Now())
	if _, err := r.Record(rec); err == nil {
		t.Error("Record() with invalid actual mood expected error, got nil")
	}
}

func TestAnalyzeUserAccuracy(t *testing.T) {
	t.Parallel()

	r := NewRecorder(NewMemoryStore(), zerolog.Nop())
	base := time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC)

	// Three matches, one miss: accuracy 0.75.
	mustRecord(t, r, record("u1", models.MoodCalm, models.MoodCalm, 0.9, base))
	mustRecord(t, r, record("u1", models.MoodCalm, models.MoodCalm, 0.9, base.Add(time.Hour)))
	mustRecord(t, r, record("u1", models.MoodFocused, models.MoodFocused, 0.9, base.Add(2*time.Hour)))
	mustRecord(t, r, record("u1", models.MoodCalm, models.MoodSocial, 0.9, base.Add(3*time.Hour)))

	analysis, err := r.AnalyzeUser("u1")
	if err != nil {
		t.Fatalf("AnalyzeUser() error = %v", err)
	}
	if analysis.Accuracy != 0.75 {
		t.Errorf("Accuracy = %.2f, want 0.75", analysis.Accuracy)
	}
	// Overconfident: confidence 0.9 vs accuracy 0.75 should scale down.
	if analysis.ConfidenceAdjustment >= 1 {
		t.Errorf("ConfidenceAdjustment = %.3f, want < 1 for overconfident history", analysis.ConfidenceAdjustment)
	}
	if analysis.PerMood[models.MoodCalm].Sessions != 2 {
		t.Errorf("calm sessions = %d, want 2", analysis.PerMood[models.MoodCalm].Sessions)
	}
}

func TestAccuracyRisesWithMatchingFeedback(t *testing.T) {
	t.Parallel()

	r := NewRecorder(NewMemoryStore(), zerolog.Nop())
	base := time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC)

	mustRecord(t, r, record("u1", models.MoodCalm, models.MoodSocial, 0.5, base))
	before, _ := r.AnalyzeUser("u1")

	for i := 1; i <= 4; i++ {
		mustRecord(t, r, record("u1", models.MoodCalm, models.MoodCalm, 0.5, base.Add(time.Duration(i)*time.Hour)))
	}
	after, _ := r.AnalyzeUser("u1")

	if after.Accuracy <= before.Accuracy {
		t.Errorf("accuracy did not rise: before %.2f, after %.2f", before.Accuracy, after.Accuracy)
	}
}

func TestAnalyzeUserEmptyHistory(t *testing.T) {
	t.Parallel()

	r := NewRecorder(NewMemoryStore(), zerolog.Nop())
	analysis, err := r.AnalyzeUser("nobody")
	if err != nil {
		t.Fatalf("AnalyzeUser() error = %v", err)
	}
	if analysis.Records != 0 {
		t.Errorf("Records = %d, want 0", analysis.Records)
	}
	if analysis.ConfidenceAdjustment != 1 {
		t.Errorf("ConfidenceAdjustment = %.2f, want neutral 1", analysis.ConfidenceAdjustment)
	}
}

func TestRecentOrderAndLimit(t *testing.T) {
	t.Parallel()

	r := NewRecorder(NewMemoryStore(), zerolog.Nop())
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		mustRecord(t, r, record("u1", models.MoodCalm, models.MoodCalm, 0.5, base.Add(time.Duration(i)*time.Hour)))
	}

	recent, err := r.Recent("u1", 3)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("len(Recent) = %d, want 3", len(recent))
	}
	if !recent[0].RecordedAt.After(recent[2].RecordedAt) {
		t.Error("Recent() not ordered newest first")
	}
}

func TestAnalyzeSystem(t *testing.T) {
	t.Parallel()

	r := NewRecorder(NewMemoryStore(), zerolog.Nop())
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	mustRecord(t, r, record("u1", models.MoodCalm, models.MoodCalm, 0.6, base))
	mustRecord(t, r, record("u2", models.MoodCalm, models.MoodSocial, 0.6, base))

	sys, err := r.AnalyzeSystem()
	if err != nil {
		t.Fatalf("AnalyzeSystem() error = %v", err)
	}
	if sys.Users != 2 || sys.Records != 2 {
		t.Errorf("Users/Records = %d/%d, want 2/2", sys.Users, sys.Records)
	}
	if sys.Accuracy != 0.5 {
		t.Errorf("Accuracy = %.2f, want 0.5", sys.Accuracy)
	}
}

func TestResetClearsUser(t *testing.T) {
	t.Parallel()

	r := NewRecorder(NewMemoryStore(), zerolog.Nop())
	mustRecord(t, r, record("u1", models.MoodCalm, models.MoodCalm, 0.6, time.Now()))
	if err := r.Reset("u1"); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	analysis, _ := r.AnalyzeUser("u1")
	if analysis.Records != 0 {
		t.Errorf("Records after Reset = %d, want 0", analysis.Records)
	}
}

func mustRecord(t *testing.T, r *Recorder, rec SessionResonance) {
	t.Helper()
	if _, err := r.Record(rec); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
}
