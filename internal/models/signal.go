// Ludoscope - Game Library Mood & Behavioral Prediction Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ludoscope

package models

import "time"

// SignalSource classifies behavioral signals by origin. The source
// selects the concrete payload type carried by the signal.
type SignalSource int

const (
	// SourceSession is explicit play-session telemetry.
	SourceSession SignalSource = iota
	// SourceGenre is a genre-transition observation.
	SourceGenre
	// SourcePlaytime is a playtime-pattern observation (daily spikes).
	SourcePlaytime
	// SourcePlatform is a platform-switch observation.
	SourcePlatform
	// SourceIntegration is inferred platform activity (Steam/GOG events).
	SourceIntegration
)

// String returns a human-readable source name.
func (s SignalSource) String() string {
	switch s {
	case SourceSession:
		return "session"
	case SourceGenre:
		return "genre"
	case SourcePlaytime:
		return "playtime"
	case SourcePlatform:
		return "platform"
	case SourceIntegration:
		return "integration"
	default:
		return "unknown"
	}
}

// SignalPayload is the tagged-union payload of a Signal. Each source
// produces exactly one concrete payload type, so feature extractors
// operate on typed fields rather than untyped map lookups.
type SignalPayload interface {
	signalPayload()
}

// SessionPayload carries per-session telemetry.
type SessionPayload struct {
	// GameID is the played game.
	GameID string

	// DurationMinutes is the session length in minutes.
	DurationMinutes float64

	// RecencyHours is the age of the session at collection time.
	RecencyHours float64

	// Intensity is the reported intensity in [0,1].
	Intensity float64

	// Completed indicates the session finished naturally.
	Completed bool

	// Social indicates a multiplayer or co-op session.
	Social bool
}

func (SessionPayload) signalPayload() {}

// GenrePayload carries a genre-transition observation between two
// consecutive sessions.
type GenrePayload struct {
	// FromGenre and ToGenre are the consecutive primary genres.
	FromGenre string
	ToGenre   string

	// Distinct reports whether the transition changed genre.
	Distinct bool
}

func (GenrePayload) signalPayload() {}

// PlaytimePayload carries a playtime-pattern observation for one
// hour-of-day bucket.
type PlaytimePayload struct {
	// Hour is the local hour of day [0,23].
	Hour int

	// Minutes is the total play minutes observed in the bucket.
	Minutes float64

	// Spike reports whether the bucket is a spike relative to the
	// user's mean hourly playtime.
	Spike bool
}

func (PlaytimePayload) signalPayload() {}

// PlatformPayload carries a platform-switch observation.
type PlatformPayload struct {
	// FromPlatform and ToPlatform are the consecutive platforms.
	FromPlatform string
	ToPlatform   string
}

func (PlatformPayload) signalPayload() {}

// IntegrationPayload carries an inferred platform activity observation.
type IntegrationPayload struct {
	// Platform is the originating platform (steam, gog).
	Platform string

	// ActivityType is the event kind.
	ActivityType string

	// Social indicates the activity involved other players.
	Social bool
}

func (IntegrationPayload) signalPayload() {}

// Signal is a timestamped, weighted behavioral observation derived from
// raw session or activity data. Signals are immutable after creation and
// owned exclusively by the signal collector.
type Signal struct {
	// Timestamp is when the underlying observation occurred.
	Timestamp time.Time

	// Source classifies the signal and selects the payload type.
	Source SignalSource

	// Weight reflects source reliability. Explicit session telemetry
	// is weighted higher than inferred integration activity.
	Weight float64

	// Payload carries the typed observation data.
	Payload SignalPayload
}
