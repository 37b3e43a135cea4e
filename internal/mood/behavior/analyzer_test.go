// Ludoscope - Game Library Mood & Behavioral Prediction Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ludoscope

package behavior

import (
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/ludoscope/internal/models"
)

func testAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	return NewAnalyzer(DefaultConfig(), NewMemoryStore(), zerolog.Nop())
}

func sessionAt(userID, gameID string, start time.Time, minutes int, mood models.Mood) models.PlaySession {
	return models.PlaySession{
		ID:        fmt.Sprintf("%s-%s-%d", userID, gameID, start.Unix()),
		UserID:    userID,
		GameID:    gameID,
		StartTime: start,
		EndTime:   start.Add(time.Duration(minutes) * time.Minute),
		Duration:  time.Duration(minutes) * time.Minute,
		Mood:      mood,
		Intensity: 0.6,
		Completed: true,
		Device:    "desktop",
	}
}

func genreGame(id, genre string) models.Game {
	return models.Game{ID: id, Title: id, Genres: []string{genre}}
}

func TestUpdateCreatesPattern(t *testing.T) {
	t.Parallel()

	a := testAnalyzer(t)
	start := time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC) // Monday

	pattern, err := a.Update(sessionAt("u1", "g1", start, 45, models.MoodCompetitive), genreGame("g1", "shooter"))
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if pattern.SessionCount != 1 {
		t.Errorf("SessionCount = %d, want 1", pattern.SessionCount)
	}
	slot, ok := pattern.TimeSlots["1-20"]
	if !ok {
		t.Fatal("expected time slot 1-20")
	}
	if slot.PreferredGenre() != "shooter" {
		t.Errorf("PreferredGenre() = %q, want shooter", slot.PreferredGenre())
	}
	if _, ok := pattern.Lengths["30|competitive"]; !ok {
		t.Error("expected 30-minute bucket for competitive mood")
	}
	if pattern.Devices["desktop"].Sessions != 1 {
		t.Errorf("desktop sessions = %d, want 1", pattern.Devices["desktop"].Sessions)
	}
}

func TestUpdateRequiresUserID(t *testing.T) {
	t.Parallel()

	a := testAnalyzer(t)
	s := sessionAt("", "g1", time.Now(), 30, models.MoodCalm)
	if _, err := a.Update(s, genreGame("g1", "puzzle")); err == nil {
		t.Error("Update() with empty user id expected error, got nil")
	}
}

func TestLengthBucketsSegmentByMood(t *testing.T) {
	t.Parallel()

	a := testAnalyzer(t)
	start := time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC)

	mustUpdate(t, a, sessionAt("u1", "g1", start, 40, models.MoodCalm), genreGame("g1", "puzzle"))
	mustUpdate(t, a, sessionAt("u1", "g1", start.Add(24*time.Hour), 50, models.MoodFocused), genreGame("g1", "puzzle"))

	pattern, _ := a.Pattern("u1")
	if len(pattern.Lengths) != 2 {
		t.Fatalf("len(Lengths) = %d, want 2 (same window, different moods)", len(pattern.Lengths))
	}
}

func TestMoodTransitionrecordsTriggerGame(t *testing.T) {
	t.Parallel()

	a := testAnalyzer(t)
	start := time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC)

	mustUpdate(t, a, sessionAt("u1", "g1", start, 30, models.MoodCalm), genreGame("g1", "puzzle"))
	mustUpdate(t, a, sessionAt("u1", "g2", start.Add(time.Hour), 30, models.MoodCompetitive), genreGame("g2", "shooter"))

	pattern, _ := a.Pattern("u1")
	tr, ok := pattern.Transitions["calm->competitive"]
	if !ok {
		t.Fatal("expected calm->competitive transition")
	}
	if !tr.TriggerGames["g2"] {
		t.Error("expected g2 recorded as trigger game")
	}
}

func TestPredictNextGame(t *testing.T) {
	t.Parallel()

	a := testAnalyzer(t)
	start := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)

	// Teach the loop puzzle -> strategy -> shooter, twice, each session
	// an hour apart.
	genres := []string{"puzzle", "strategy", "shooter", "puzzle", "strategy", "shooter", "puzzle", "strategy"}
	for i, genre := range genres {
		game := genreGame("g-"+genre, genre)
		mustUpdate(t, a, sessionAt("u1", game.ID, start.Add(time.Duration(i)*time.Hour), 30, models.MoodFocused), game)
	}

	pred, ok := a.PredictNextGame("u1")
	if !ok {
		t.Fatal("PredictNextGame() = no prediction, want one")
	}
	if pred.Genre != "shooter" {
		t.Errorf("predicted genre = %q, want shooter", pred.Genre)
	}
	if pred.GameID != "g-shooter" {
		t.Errorf("predicted game = %q, want g-shooter", pred.GameID)
	}
}

func TestPredictNextGameNoHistory(t *testing.T) {
	t.Parallel()

	a := testAnalyzer(t)
	if _, ok := a.PredictNextGame("nobody"); ok {
		t.Error("PredictNextGame() for unknown user = prediction, want none")
	}

	// A single session gives no 2-length sequence to match.
	mustUpdate(t, a, sessionAt("u1", "g1", time.Now(), 30, models.MoodCalm), genreGame("g1", "puzzle"))
	if _, ok := a.PredictNextGame("u1"); ok {
		t.Error("PredictNextGame() with one session = prediction, want none")
	}
}

func TestRecentGenresBounded(t *testing.T) {
	t.Parallel()

	a := testAnalyzer(t)
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 30; i++ {
		genre := fmt.Sprintf("genre-%d", i)
		game := genreGame("g", genre)
		mustUpdate(t, a, sessionAt("u1", "g", start.Add(time.Duration(i)*time.Hour), 30, models.MoodCurious), game)
	}

	pattern, _ := a.Pattern("u1")
	if len(pattern.RecentGenres) != a.config.MaxRecentGenres {
		t.Errorf("len(RecentGenres) = %d, want %d", len(pattern.RecentGenres), a.config.MaxRecentGenres)
	}
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	t.Parallel()

	a := testAnalyzer(t)
	start := time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC)
	mustUpdate(t, a, sessionAt("u1", "g1", start, 30, models.MoodCalm), genreGame("g1", "puzzle"))

	got, ok := a.Pattern("u1")
	if !ok {
		t.Fatal("Pattern() = not found")
	}
	got.SessionCount = 99
	for _, slot := range got.TimeSlots {
		slot.Genres["puzzle"] = 99
	}

	// Mutating a returned pattern must not bleed into stored state.
	again, _ := a.Pattern("u1")
	if again.SessionCount != 1 {
		t.Errorf("stored SessionCount = %d after caller mutation, want 1", again.SessionCount)
	}
	for _, slot := range again.TimeSlots {
		if slot.Genres["puzzle"] != 1 {
			t.Errorf("stored genre count = %d after caller mutation, want 1", slot.Genres["puzzle"])
		}
	}
}

func TestDeleteRemovesPattern(t *testing.T) {
	t.Parallel()

	a := testAnalyzer(t)
	mustUpdate(t, a, sessionAt("u1", "g1", time.Now(), 30, models.MoodCalm), genreGame("g1", "puzzle"))

	if err := a.Delete("u1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok := a.Pattern("u1"); ok {
		t.Error("Pattern() after Delete() = found, want gone")
	}
}

func mustUpdate(t *testing.T, a *Analyzer, s models.PlaySession, g models.Game) {
	t.Helper()
	if _, err := a.Update(s, g); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
}
