// Ludoscope - Game Library Mood & Behavioral Prediction Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ludoscope

package signal

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/ludoscope/internal/models"
)

var testTime = time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)

func testSession(start time.Time, gameID, device string, minutes float64) models.PlaySession {
	return models.PlaySession{
		ID:        "s-" + gameID + start.Format("150405"),
		UserID:    "u1",
		GameID:    gameID,
		StartTime: start,
		Duration:  time.Duration(minutes * float64(time.Minute)),
		Intensity: 0.6,
		Completed: true,
		Device:    device,
	}
}

func testCatalog() []models.Game {
	return []models.Game{
		{ID: "g1", Title: "Stellar Siege", Genres: []string{"strategy"}},
		{ID: "g2", Title: "Drift Rally", Genres: []string{"racing"}},
	}
}

func TestCollectEmptyInput(t *testing.T) {
	t.Parallel()

	c := NewCollector(DefaultConfig(), zerolog.Nop())

	signals := c.Collect(testTime, nil, nil, nil)
	if len(signals) != 0 {
		t.Errorf("empty input produced %d signals, want 0", len(signals))
	}
}

func TestCollectSignalFamilies(t *testing.T) {
	t.Parallel()

	c := NewCollector(DefaultConfig(), zerolog.Nop())
	sessions := []models.PlaySession{
		testSession(testTime.Add(-3*time.Hour), "g1", "pc", 60),
		testSession(testTime.Add(-1*time.Hour), "g2", "deck", 30),
	}
	activities := []models.IntegrationActivity{
		{Source: "steam", Type: "achievement", Timestamp: testTime, Social: false},
	}

	signals := c.Collect(testTime, sessions, testCatalog(), activities)

	counts := make(map[models.SignalSource]int)
	for _, sig := range signals {
		counts[sig.Source]++
		if sig.Weight <= 0 {
			t.Errorf("signal %v has non-positive weight", sig.Source)
		}
	}

	if counts[models.SourceSession] != 2 {
		t.Errorf("session signals = %d, want 2", counts[models.SourceSession])
	}
	if counts[models.SourceGenre] != 1 {
		t.Errorf("genre signals = %d, want 1", counts[models.SourceGenre])
	}
	if counts[models.SourcePlatform] != 1 {
		t.Errorf("platform signals = %d, want 1", counts[models.SourcePlatform])
	}
	if counts[models.SourceIntegration] != 1 {
		t.Errorf("integration signals = %d, want 1", counts[models.SourceIntegration])
	}
	if counts[models.SourcePlaytime] == 0 {
		t.Error("expected at least one playtime signal")
	}
}

func TestCollectGenreTransitionDistinct(t *testing.T) {
	t.Parallel()

	c := NewCollector(DefaultConfig(), zerolog.Nop())
	sessions := []models.PlaySession{
		testSession(testTime.Add(-2*time.Hour), "g1", "pc", 60),
		testSession(testTime.Add(-1*time.Hour), "g2", "pc", 30),
	}

	signals := c.Collect(testTime, sessions, testCatalog(), nil)

	for _, sig := range signals {
		if sig.Source != models.SourceGenre {
			continue
		}
		p := sig.Payload.(models.GenrePayload)
		if p.FromGenre != "strategy" || p.ToGenre != "racing" {
			t.Errorf("transition %s->%s, want strategy->racing", p.FromGenre, p.ToGenre)
		}
		if !p.Distinct {
			t.Error("strategy->racing should be distinct")
		}
	}
}

func TestCollectPrunesBuffer(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.MaxSignalAge = time.Hour
	c := NewCollector(cfg, zerolog.Nop())

	first := testSession(testTime.Add(-10*time.Minute), "g1", "pc", 60)
	c.Collect(testTime, []models.PlaySession{first}, testCatalog(), nil)

	// A later Collect past MaxSignalAge must evict the earlier signals
	// without an intervening Buffered read.
	later := testTime.Add(2 * time.Hour)
	second := testSession(later.Add(-5*time.Minute), "g2", "pc", 30)
	c.Collect(later, []models.PlaySession{second}, testCatalog(), nil)

	buffered := c.Buffered(later)
	if len(buffered) == 0 {
		t.Fatal("fresh signals missing from buffer")
	}
	for _, sig := range buffered {
		if later.Sub(sig.Timestamp) > cfg.MaxSignalAge {
			t.Errorf("stale signal from %v survived Collect pruning", sig.Timestamp)
		}
		if p, ok := sig.Payload.(models.SessionPayload); ok && p.GameID == "g1" {
			t.Error("signal from the expired session survived Collect pruning")
		}
	}
}

func TestBufferedDropsStaleSignals(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.MaxSignalAge = time.Hour
	c := NewCollector(cfg, zerolog.Nop())

	old := testSession(testTime.Add(-3*time.Hour), "g1", "pc", 60)
	fresh := testSession(testTime.Add(-10*time.Minute), "g2", "pc", 30)
	c.Collect(testTime, []models.PlaySession{old, fresh}, testCatalog(), nil)

	buffered := c.Buffered(testTime)
	for _, sig := range buffered {
		if testTime.Sub(sig.Timestamp) > cfg.MaxSignalAge {
			t.Errorf("stale signal from %v survived pruning", sig.Timestamp)
		}
	}
	if len(buffered) == 0 {
		t.Error("fresh signals should survive pruning")
	}
}
