// Ludoscope - Game Library Mood & Behavioral Prediction Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ludoscope

package store

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/ludoscope/internal/models"
	"github.com/tomtom215/ludoscope/internal/mood/behavior"
	"github.com/tomtom215/ludoscope/internal/mood/neural"
	"github.com/tomtom215/ludoscope/internal/mood/resonance"
)

func TestBadgerPatternStoreRoundTrip(t *testing.T) {
	db, err := Open(Options{InMemory: true})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	s := NewBadgerPatternStore(db, zerolog.Nop())
	pattern := &neural.MoodPattern{
		Mood:       models.MoodCompetitive,
		Confidence: 0.8,
		Triggers:   map[string]bool{"weekend": true},
		TimeCounts: map[string]int{"6-20": 2},
		GameAssociations: map[string]bool{
			"g1": true,
		},
		Intensity:    0.7,
		Observations: 5,
	}
	if err := s.Put(pattern); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, ok := s.Get(models.MoodCompetitive)
	if !ok {
		t.Fatal("Get() = not found after Put()")
	}
	if got.Confidence != 0.8 || !got.Triggers["weekend"] {
		t.Errorf("Get() = %+v, want the stored pattern", got)
	}

	if _, ok := s.Get(models.MoodCalm); ok {
		t.Error("Get() for unstored mood = found, want missing")
	}

	all, err := s.All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(all) != 1 {
		t.Errorf("len(All()) = %d, want 1", len(all))
	}

	if err := s.Reset(); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if _, ok := s.Get(models.MoodCompetitive); ok {
		t.Error("Get() after Reset() = found, want missing")
	}
}

func TestBadgerBehaviorStoreRoundTrip(t *testing.T) {
	db, err := Open(Options{InMemory: true})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	s := NewBadgerBehaviorStore(db, zerolog.Nop())

	// Build a realistic pattern through the analyzer rather than by hand.
	a := behavior.NewAnalyzer(behavior.DefaultConfig(), behavior.NewMemoryStore(), zerolog.Nop())
	start := time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC)
	pattern, err := a.Update(models.PlaySession{
		ID:        "s1",
		UserID:    "u1",
		GameID:    "g1",
		StartTime: start,
		EndTime:   start.Add(45 * time.Minute),
		Duration:  45 * time.Minute,
		Mood:      models.MoodFocused,
		Intensity: 0.6,
		Device:    "desktop",
	}, models.Game{ID: "g1", Title: "Game", Genres: []string{"puzzle"}})
	if err != nil {
		t.Fatalf("build pattern: %v", err)
	}

	if err := s.Put(pattern); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	got, ok := s.Get("u1")
	if !ok {
		t.Fatal("Get() = not found after Put()")
	}
	if got.SessionCount != 1 || got.Devices["desktop"] == nil {
		t.Errorf("Get() = %+v, want the stored pattern", got)
	}

	if err := s.Delete("u1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok := s.Get("u1"); ok {
		t.Error("Get() after Delete() = found, want missing")
	}
	if err := s.Delete("u1"); err != nil {
		t.Errorf("Delete() of missing pattern error = %v, want nil", err)
	}
}

func TestBadgerResonanceStorePerUserIsolation(t *testing.T) {
	db, err := Open(Options{InMemory: true})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	s := NewBadgerResonanceStore(db, zerolog.Nop())
	base := time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC)

	for i, userID := range []string{"u1", "u1", "u2"} {
		err := s.Append(resonance.SessionResonance{
			ID:         string(rune('a' + i)),
			UserID:     userID,
			ActualMood: models.MoodCalm,
			RecordedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	u1, err := s.ForUser("u1")
	if err != nil {
		t.Fatalf("ForUser() error = %v", err)
	}
	if len(u1) != 2 {
		t.Fatalf("len(ForUser(u1)) = %d, want 2", len(u1))
	}
	if !u1[0].RecordedAt.Before(u1[1].RecordedAt) {
		t.Error("ForUser() not ordered oldest first")
	}

	all, err := s.All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("len(All()) = %d, want 3", len(all))
	}

	if err := s.DeleteUser("u1"); err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}
	u1, _ = s.ForUser("u1")
	if len(u1) != 0 {
		t.Errorf("len(ForUser(u1)) after DeleteUser = %d, want 0", len(u1))
	}
	u2, _ := s.ForUser("u2")
	if len(u2) != 1 {
		t.Errorf("len(ForUser(u2)) = %d, want 1 (must survive u1 deletion)", len(u2))
	}
}

func TestOpenOnDisk(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(Options{Path: dir})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	s := NewBadgerPatternStore(db, zerolog.Nop())
	if err := s.Put(&neural.MoodPattern{Mood: models.MoodCalm, Confidence: 0.5}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if _, ok := s.Get(models.MoodCalm); !ok {
		t.Error("Get() on disk-backed store = missing, want found")
	}
}
