// Ludoscope - Game Library Mood & Behavioral Prediction Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ludoscope

// Package signal turns raw session, catalog, and platform-activity
// records into typed, weighted behavioral signals.
//
// Each extraction method owns one signal family. Signals carry a weight
// reflecting source reliability: explicit session telemetry is trusted
// more than inferred integration activity. Empty input always yields an
// empty signal set, never an error; downstream stages treat "no signals"
// as a valid state with degraded confidence.
package signal

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/ludoscope/internal/models"
)

// Config contains configuration for the signal collector.
type Config struct {
	// MaxSignalAge bounds the rolling buffer. Signals older than this
	// are dropped on the next Collect or Buffered call, not by a
	// background sweep. Default: 72h.
	MaxSignalAge time.Duration

	// SessionWeight is the reliability weight for session signals.
	// Default: 1.0.
	SessionWeight float64

	// GenreWeight is the reliability weight for genre-transition signals.
	// Default: 0.8.
	GenreWeight float64

	// PlaytimeWeight is the reliability weight for playtime-pattern signals.
	// Default: 0.7.
	PlaytimeWeight float64

	// PlatformWeight is the reliability weight for platform-switch signals.
	// Default: 0.6.
	PlatformWeight float64

	// IntegrationWeight is the reliability weight for inferred
	// integration-activity signals. Default: 0.4.
	IntegrationWeight float64

	// SpikeFactor is the multiple of mean hourly playtime above which
	// an hour bucket counts as a spike. Default: 2.0.
	SpikeFactor float64
}

// DefaultConfig returns default collector configuration.
func DefaultConfig() Config {
	return Config{
		MaxSignalAge:      72 * time.Hour,
		SessionWeight:     1.0,
		GenreWeight:       0.8,
		PlaytimeWeight:    0.7,
		PlatformWeight:    0.6,
		IntegrationWeight: 0.4,
		SpikeFactor:       2.0,
	}
}

// Collector extracts behavioral signals and optionally retains them in a
// rolling buffer bounded by MaxSignalAge. Safe for concurrent use.
type Collector struct {
	config Config
	logger zerolog.Logger

	mu     sync.Mutex
	buffer []models.Signal
}

// NewCollector creates a signal collector.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCollector(cfg Config, logger zerolog.Logger) *Collector {
	if cfg.MaxSignalAge <= 0 {
		cfg.MaxSignalAge = 72 * time.Hour
	}
	if cfg.SessionWeight <= 0 {
		cfg.SessionWeight = 1.0
	}
	if cfg.GenreWeight <= 0 {
		cfg.GenreWeight = 0.8
	}
	if cfg.PlaytimeWeight <= 0 {
		cfg.PlaytimeWeight = 0.7
	}
	if cfg.PlatformWeight <= 0 {
		cfg.PlatformWeight = 0.6
	}
	if cfg.IntegrationWeight <= 0 {
		cfg.IntegrationWeight = 0.4
	}
	if cfg.SpikeFactor <= 0 {
		cfg.SpikeFactor = 2.0
	}

	return &Collector{
		config: cfg,
		logger: logger.With().Str("component", "signal").Logger(),
	}
}

// Collect produces the full signal set for the given history and
// appends it to the rolling buffer. Sessions need not be ordered;
// they are sorted chronologically before sequential families
// (genre transitions, platform switches) are derived.
func (c *Collector) Collect(now time.Time, sessions []models.PlaySession, games []models.Game, activities []models.IntegrationActivity) []models.Signal {
	ordered := make([]models.PlaySession, len(sessions))
	copy(ordered, sessions)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].StartTime.Before(ordered[j].StartTime)
	})

	catalog := indexGames(games)

	signals := c.collectSessionSignals(now, ordered)
	signals = append(signals, c.collectGenreSignals(ordered, catalog)...)
	signals = append(signals, c.collectPlaytimeSignals(ordered)...)
	signals = append(signals, c.collectPlatformSignals(ordered)...)
	signals = append(signals, c.collectIntegrationSignals(activities)...)

	c.mu.Lock()
	c.buffer = append(c.buffer, signals...)
	c.pruneLocked(now)
	c.mu.Unlock()

	c.logger.Debug().
		Int("sessions", len(sessions)).
		Int("activities", len(activities)).
		Int("signals", len(signals)).
		Msg("signals collected")

	return signals
}

// Buffered returns the retained signals, dropping entries older than
// MaxSignalAge first.
func (c *Collector) Buffered(now time.Time) []models.Signal {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pruneLocked(now)

	out := make([]models.Signal, len(c.buffer))
	copy(out, c.buffer)
	return out
}

// pruneLocked drops buffered signals older than MaxSignalAge, keeping
// the buffer bounded across long-running processes. Must hold c.mu.
func (c *Collector) pruneLocked(now time.Time) {
	cutoff := now.Add(-c.config.MaxSignalAge)
	fresh := c.buffer[:0]
	for _, sig := range c.buffer {
		if !sig.Timestamp.Before(cutoff) {
			fresh = append(fresh, sig)
		}
	}
	c.buffer = fresh
}

// collectSessionSignals emits one signal per session carrying recency,
// duration, intensity, and completion.
func (c *Collector) collectSessionSignals(now time.Time, sessions []models.PlaySession) []models.Signal {
	signals := make([]models.Signal, 0, len(sessions))
	for _, s := range sessions {
		signals = append(signals, models.Signal{
			Timestamp: s.StartTime,
			Source:    models.SourceSession,
			Weight:    c.config.SessionWeight,
			Payload: models.SessionPayload{
				GameID:          s.GameID,
				DurationMinutes: s.DurationMinutes(),
				RecencyHours:    now.Sub(s.StartTime).Hours(),
				Intensity:       s.Intensity,
				Completed:       s.Completed,
				Social:          hasSocialTag(s.Tags),
			},
		})
	}
	return signals
}

// collectGenreSignals emits one signal per consecutive session pair,
// recording the primary-genre transition.
func (c *Collector) collectGenreSignals(ordered []models.PlaySession, catalog map[string]models.Game) []models.Signal {
	if len(ordered) < 2 {
		return nil
	}

	signals := make([]models.Signal, 0, len(ordered)-1)
	for i := 1; i < len(ordered); i++ {
		from := catalog[ordered[i-1].GameID].PrimaryGenre()
		to := catalog[ordered[i].GameID].PrimaryGenre()
		if from == "" && to == "" {
			continue
		}
		signals = append(signals, models.Signal{
			Timestamp: ordered[i].StartTime,
			Source:    models.SourceGenre,
			Weight:    c.config.GenreWeight,
			Payload: models.GenrePayload{
				FromGenre: from,
				ToGenre:   to,
				Distinct:  from != to,
			},
		})
	}
	return signals
}

// collectPlaytimeSignals buckets play minutes by hour of day and emits
// one signal per active bucket, flagging spikes against the mean.
func (c *Collector) collectPlaytimeSignals(ordered []models.PlaySession) []models.Signal {
	if len(ordered) == 0 {
		return nil
	}

	var perHour [24]float64
	var latest [24]time.Time
	active := 0
	total := 0.0
	for _, s := range ordered {
		h := s.StartTime.Hour()
		if perHour[h] == 0 {
			active++
		}
		minutes := s.DurationMinutes()
		perHour[h] += minutes
		total += minutes
		if s.StartTime.After(latest[h]) {
			latest[h] = s.StartTime
		}
	}
	if active == 0 || total == 0 {
		return nil
	}
	mean := total / float64(active)

	signals := make([]models.Signal, 0, active)
	for h, minutes := range perHour {
		if minutes == 0 {
			continue
		}
		signals = append(signals, models.Signal{
			Timestamp: latest[h],
			Source:    models.SourcePlaytime,
			Weight:    c.config.PlaytimeWeight,
			Payload: models.PlaytimePayload{
				Hour:    h,
				Minutes: minutes,
				Spike:   minutes >= mean*c.config.SpikeFactor,
			},
		})
	}
	return signals
}

// collectPlatformSignals emits one signal per device switch between
// consecutive sessions.
func (c *Collector) collectPlatformSignals(ordered []models.PlaySession) []models.Signal {
	var signals []models.Signal
	for i := 1; i < len(ordered); i++ {
		from, to := ordered[i-1].Device, ordered[i].Device
		if from == "" || to == "" || from == to {
			continue
		}
		signals = append(signals, models.Signal{
			Timestamp: ordered[i].StartTime,
			Source:    models.SourcePlatform,
			Weight:    c.config.PlatformWeight,
			Payload: models.PlatformPayload{
				FromPlatform: from,
				ToPlatform:   to,
			},
		})
	}
	return signals
}

// collectIntegrationSignals emits one signal per platform activity event.
func (c *Collector) collectIntegrationSignals(activities []models.IntegrationActivity) []models.Signal {
	signals := make([]models.Signal, 0, len(activities))
	for _, a := range activities {
		signals = append(signals, models.Signal{
			Timestamp: a.Timestamp,
			Source:    models.SourceIntegration,
			Weight:    c.config.IntegrationWeight,
			Payload: models.IntegrationPayload{
				Platform:     a.Source,
				ActivityType: a.Type,
				Social:       a.Social,
			},
		})
	}
	return signals
}

// indexGames builds a lookup map from a catalog slice.
func indexGames(games []models.Game) map[string]models.Game {
	idx := make(map[string]models.Game, len(games))
	for _, g := range games {
		idx[g.ID] = g
	}
	return idx
}

// hasSocialTag reports whether the session tags indicate multiplayer play.
func hasSocialTag(tags []string) bool {
	for _, tag := range tags {
		switch tag {
		case "co-op", "coop", "multiplayer", "party", "ranked":
			return true
		}
	}
	return false
}
