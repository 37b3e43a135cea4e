// Ludoscope - Game Library Mood & Behavioral Prediction Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ludoscope

package models

import "time"

// PlaySession represents a single play session supplied by the library
// manager. Sessions are the primary telemetry input to the mood engine.
type PlaySession struct {
	// ID is the session identifier assigned by the caller.
	ID string `json:"id"`

	// UserID is the owning user.
	UserID string `json:"user_id"`

	// GameID references a Game in the catalog.
	GameID string `json:"game_id"`

	// StartTime is when the session began.
	StartTime time.Time `json:"start_time"`

	// EndTime is when the session ended. Zero if still in progress.
	EndTime time.Time `json:"end_time,omitempty"`

	// Duration is the reported session length. If zero, it is derived
	// from StartTime/EndTime via DurationMinutes.
	Duration time.Duration `json:"duration,omitempty"`

	// Mood is the mood reported or observed for this session.
	Mood Mood `json:"mood,omitempty"`

	// Intensity is the reported session intensity in [0,1].
	Intensity float64 `json:"intensity"`

	// Completed indicates the user finished what they set out to play.
	Completed bool `json:"completed"`

	// Device is the device the session was played on (pc, deck, console).
	Device string `json:"device,omitempty"`

	// Tags are free-form session annotations (e.g. "ranked", "co-op").
	Tags []string `json:"tags,omitempty"`
}

// DurationMinutes returns the session length in minutes, preferring the
// explicit Duration field and falling back to EndTime-StartTime.
// Returns 0 for sessions with no usable duration information.
func (s PlaySession) DurationMinutes() float64 {
	if s.Duration > 0 {
		return s.Duration.Minutes()
	}
	if !s.EndTime.IsZero() && s.EndTime.After(s.StartTime) {
		return s.EndTime.Sub(s.StartTime).Minutes()
	}
	return 0
}

// Game represents a catalog entry.
type Game struct {
	// ID is the unique game identifier.
	ID string `json:"id"`

	// Title is the display title.
	Title string `json:"title"`

	// Genres is the list of genre names, most significant first.
	Genres []string `json:"genres"`

	// Platforms lists the platforms the game is owned on.
	Platforms []string `json:"platforms,omitempty"`

	// Multiplayer indicates the game has an online or local
	// multiplayer mode.
	Multiplayer bool `json:"multiplayer,omitempty"`

	// AverageSessionMinutes is an estimated typical play session
	// length, used for time-fit scoring. Zero means unknown.
	AverageSessionMinutes float64 `json:"average_session_minutes,omitempty"`

	// Year is the release year.
	Year int `json:"year,omitempty"`
}

// PrimaryGenre returns the first genre, or empty when untagged.
func (g Game) PrimaryGenre() string {
	if len(g.Genres) == 0 {
		return ""
	}
	return g.Genres[0]
}

// IntegrationActivity is a platform activity event (Steam, GOG) supplied
// by the integration layer. Activity is weaker evidence than explicit
// session telemetry and is weighted accordingly by the signal collector.
type IntegrationActivity struct {
	// Source is the originating platform (steam, gog).
	Source string `json:"source"`

	// Type is the activity kind (achievement, purchase, friend_session).
	Type string `json:"type"`

	// GameID references the related game, when known.
	GameID string `json:"game_id,omitempty"`

	// Social indicates the activity involved other players.
	Social bool `json:"social,omitempty"`

	// Timestamp is when the activity occurred.
	Timestamp time.Time `json:"timestamp"`
}
