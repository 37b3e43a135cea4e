// Ludoscope - Game Library Mood & Behavioral Prediction Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ludoscope

// Package behavior learns per-user habit patterns from play sessions:
// time-of-day preferences, session-length buckets, genre sequences,
// per-user mood transitions, and device stats.
//
// All five extractors are append-only accumulators: a new session
// updates exactly the matching buckets, creating them on first sight
// and never deleting. The backing store is injected; one BehaviorPattern
// exists per user.
package behavior

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/ludoscope/internal/models"
)

// lengthBucketMinutes is the session-length clustering window.
const lengthBucketMinutes = 30

// sequenceWindow is the genre N-gram window length.
const sequenceWindow = 3

// Config contains configuration for the behavior analyzer.
type Config struct {
	// MaxRecentGenres bounds the per-user trailing genre list kept for
	// sequence matching. Default: 12.
	MaxRecentGenres int
}

// DefaultConfig returns default behavior analyzer configuration.
func DefaultConfig() Config {
	return Config{MaxRecentGenres: 12}
}

// TimeSlot is one (day-of-week, hour) preference bucket.
type TimeSlot struct {
	DayOfWeek int            `json:"day_of_week"`
	Hour      int            `json:"hour"`
	Sessions  int            `json:"sessions"`
	Genres    map[string]int `json:"genres"`
}

// PreferredGenre returns the most frequent genre in the slot.
func (t *TimeSlot) PreferredGenre() string {
	best, bestCount := "", 0
	for genre, count := range t.Genres {
		if count > bestCount || (count == bestCount && genre < best) {
			best, bestCount = genre, count
		}
	}
	return best
}

// LengthBucket clusters session durations into 30-minute windows,
// segmented by mood.
type LengthBucket struct {
	BucketMinutes int         `json:"bucket_minutes"`
	Mood          models.Mood `json:"mood"`
	Sessions      int         `json:"sessions"`
	TotalMinutes  float64     `json:"total_minutes"`
}

// GenreSequence is a learned N-gram of consecutive primary genres.
type GenreSequence struct {
	Genres    []string       `json:"genres"`
	Frequency int            `json:"frequency"`
	Following map[string]int `json:"following"`
	Games     map[string]int `json:"games"`
}

// MoodTransitionRecord is a per-user mood transition with the games
// that triggered it. Distinct from the global transition table in the
// neural analyzer.
type MoodTransitionRecord struct {
	From         models.Mood     `json:"from"`
	To           models.Mood     `json:"to"`
	Count        int             `json:"count"`
	TriggerGames map[string]bool `json:"trigger_games"`
}

// DeviceStats aggregates per-device play.
type DeviceStats struct {
	Device       string  `json:"device"`
	Sessions     int     `json:"sessions"`
	TotalMinutes float64 `json:"total_minutes"`
	Completed    int     `json:"completed"`
}

// BehaviorPattern aggregates all five pattern families for one user.
type BehaviorPattern struct {
	UserID       string                           `json:"user_id"`
	TimeSlots    map[string]*TimeSlot             `json:"time_slots"`
	Lengths      map[string]*LengthBucket         `json:"lengths"`
	Sequences    map[string]*GenreSequence        `json:"sequences"`
	Transitions  map[string]*MoodTransitionRecord `json:"transitions"`
	Devices      map[string]*DeviceStats          `json:"devices"`
	RecentGenres []string                         `json:"recent_genres"`
	LastMood     models.Mood                      `json:"last_mood"`
	LastGameID   string                           `json:"last_game_id"`
	SessionCount int                              `json:"session_count"`
	UpdatedAt    time.Time                        `json:"updated_at"`
}

// newPattern creates an empty pattern for a user.
func newPattern(userID string) *BehaviorPattern {
	return &BehaviorPattern{
		UserID:      userID,
		TimeSlots:   make(map[string]*TimeSlot),
		Lengths:     make(map[string]*LengthBucket),
		Sequences:   make(map[string]*GenreSequence),
		Transitions: make(map[string]*MoodTransitionRecord),
		Devices:     make(map[string]*DeviceStats),
	}
}

// Clone returns a deep copy. Store readers get their own maps, so a
// concurrent same-user update never races with a returned pattern.
func (p *BehaviorPattern) Clone() *BehaviorPattern {
	if p == nil {
		return nil
	}
	out := *p
	out.TimeSlots = make(map[string]*TimeSlot, len(p.TimeSlots))
	for k, v := range p.TimeSlots {
		slot := *v
		slot.Genres = copyCounts(v.Genres)
		out.TimeSlots[k] = &slot
	}
	out.Lengths = make(map[string]*LengthBucket, len(p.Lengths))
	for k, v := range p.Lengths {
		bucket := *v
		out.Lengths[k] = &bucket
	}
	out.Sequences = make(map[string]*GenreSequence, len(p.Sequences))
	for k, v := range p.Sequences {
		seq := *v
		seq.Genres = append([]string(nil), v.Genres...)
		seq.Following = copyCounts(v.Following)
		seq.Games = copyCounts(v.Games)
		out.Sequences[k] = &seq
	}
	out.Transitions = make(map[string]*MoodTransitionRecord, len(p.Transitions))
	for k, v := range p.Transitions {
		tr := *v
		tr.TriggerGames = make(map[string]bool, len(v.TriggerGames))
		for g, set := range v.TriggerGames {
			tr.TriggerGames[g] = set
		}
		out.Transitions[k] = &tr
	}
	out.Devices = make(map[string]*DeviceStats, len(p.Devices))
	for k, v := range p.Devices {
		d := *v
		out.Devices[k] = &d
	}
	out.RecentGenres = append([]string(nil), p.RecentGenres...)
	return &out
}

// copyCounts duplicates a counter map.
func copyCounts(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// GamePrediction is the output of PredictNextGame.
type GamePrediction struct {
	// Genre is the predicted next primary genre.
	Genre string `json:"genre"`

	// GameID is the most frequently observed game for the matched
	// sequence, when one exists.
	GameID string `json:"game_id,omitempty"`

	// Frequency is the observation count of the matched sequence.
	Frequency int `json:"frequency"`

	// MatchedSequence is the genre N-gram that produced the prediction.
	MatchedSequence []string `json:"matched_sequence"`
}

// Store is the injected backing for behavior patterns.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the pattern for a user.
	Get(userID string) (*BehaviorPattern, bool)

	// Put upserts a pattern.
	Put(pattern *BehaviorPattern) error

	// Delete removes a user's pattern.
	Delete(userID string) error
}

// Analyzer updates and queries per-user behavior patterns.
// Safe for concurrent use across users; concurrent updates for the
// same user are last-write-wins, acceptable for a single user-facing
// process and documented as a non-goal for multi-instance deployment.
type Analyzer struct {
	config Config
	logger zerolog.Logger
	store  Store

	mu sync.Mutex
}

// NewAnalyzer creates a behavior analyzer over the given store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewAnalyzer(cfg Config, store Store, logger zerolog.Logger) *Analyzer {
	if cfg.MaxRecentGenres <= 0 {
		cfg.MaxRecentGenres = 12
	}
	if store == nil {
		store = NewMemoryStore()
	}
	return &Analyzer{
		config: cfg,
		logger: logger.With().Str("component", "behavior").Logger(),
		store:  store,
	}
}

// Update folds one new session into the user's pattern, creating the
// pattern on first session. Returns the updated pattern.
func (a *Analyzer) Update(session models.PlaySession, game models.Game) (*BehaviorPattern, error) {
	if session.UserID == "" {
		return nil, fmt.Errorf("session has no user id")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	pattern, ok := a.store.Get(session.UserID)
	if !ok {
		pattern = newPattern(session.UserID)
	}

	a.updateTimeSlot(pattern, session, game)
	a.updateLengthBucket(pattern, session)
	a.updateSequences(pattern, session, game)
	a.updateTransitions(pattern, session)
	a.updateDevices(pattern, session)

	pattern.LastMood = session.Mood
	pattern.LastGameID = session.GameID
	pattern.SessionCount++
	pattern.UpdatedAt = session.StartTime

	if err := a.store.Put(pattern); err != nil {
		return nil, fmt.Errorf("store behavior pattern: %w", err)
	}

	a.logger.Debug().
		Str("user_id", session.UserID).
		Int("sessions", pattern.SessionCount).
		Msg("behavior pattern updated")
	return pattern, nil
}

// Pattern returns the learned pattern for a user.
func (a *Analyzer) Pattern(userID string) (*BehaviorPattern, bool) {
	return a.store.Get(userID)
}

// Delete removes a user's pattern.
func (a *Analyzer) Delete(userID string) error {
	return a.store.Delete(userID)
}

// PredictNextGame matches the last three genres against learned 2-3
// length sequences. Longer matches win; ties break by highest observed
// frequency. The second return is false when nothing matches — no
// prediction is a valid outcome, not an error.
func (a *Analyzer) PredictNextGame(userID string) (GamePrediction, bool) {
	pattern, ok := a.store.Get(userID)
	if !ok || len(pattern.RecentGenres) == 0 {
		return GamePrediction{}, false
	}

	recent := pattern.RecentGenres
	if len(recent) > sequenceWindow {
		recent = recent[len(recent)-sequenceWindow:]
	}

	var best *GenreSequence
	bestLen := 0
	for length := len(recent); length >= 2; length-- {
		suffix := recent[len(recent)-length:]
		key := sequenceKey(suffix)
		seq, ok := pattern.Sequences[key]
		if !ok || len(seq.Following) == 0 {
			continue
		}
		if length > bestLen || (length == bestLen && seq.Frequency > best.Frequency) {
			best, bestLen = seq, length
		}
	}
	if best == nil {
		return GamePrediction{}, false
	}

	return GamePrediction{
		Genre:           topCounted(best.Following),
		GameID:          topCounted(best.Games),
		Frequency:       best.Frequency,
		MatchedSequence: append([]string{}, best.Genres...),
	}, true
}

// updateTimeSlot records the (weekday, hour) preference.
func (a *Analyzer) updateTimeSlot(p *BehaviorPattern, s models.PlaySession, game models.Game) {
	key := fmt.Sprintf("%d-%d", int(s.StartTime.Weekday()), s.StartTime.Hour())
	slot, ok := p.TimeSlots[key]
	if !ok {
		slot = &TimeSlot{
			DayOfWeek: int(s.StartTime.Weekday()),
			Hour:      s.StartTime.Hour(),
			Genres:    make(map[string]int),
		}
		p.TimeSlots[key] = slot
	}
	slot.Sessions++
	if genre := game.PrimaryGenre(); genre != "" {
		slot.Genres[genre]++
	}
}

// updateLengthBucket clusters the duration into a 30-minute window,
// segmented by mood.
func (a *Analyzer) updateLengthBucket(p *BehaviorPattern, s models.PlaySession) {
	minutes := s.DurationMinutes()
	if minutes <= 0 {
		return
	}
	bucket := (int(minutes) / lengthBucketMinutes) * lengthBucketMinutes
	key := fmt.Sprintf("%d|%s", bucket, s.Mood)
	lb, ok := p.Lengths[key]
	if !ok {
		lb = &LengthBucket{BucketMinutes: bucket, Mood: s.Mood}
		p.Lengths[key] = lb
	}
	lb.Sessions++
	lb.TotalMinutes += minutes
}

// updateSequences appends the session's genre to the trailing list and
// records every 2-3 length window ending before it, with the session's
// genre as the follower.
func (a *Analyzer) updateSequences(p *BehaviorPattern, s models.PlaySession, game models.Game) {
	genre := game.PrimaryGenre()
	if genre == "" {
		return
	}

	history := p.RecentGenres
	for length := 2; length <= sequenceWindow; length++ {
		if len(history) < length {
			break
		}
		window := history[len(history)-length:]
		key := sequenceKey(window)
		seq, ok := p.Sequences[key]
		if !ok {
			seq = &GenreSequence{
				Genres:    append([]string{}, window...),
				Following: make(map[string]int),
				Games:     make(map[string]int),
			}
			p.Sequences[key] = seq
		}
		seq.Frequency++
		seq.Following[genre]++
		seq.Games[s.GameID]++
	}

	p.RecentGenres = append(p.RecentGenres, genre)
	if len(p.RecentGenres) > a.config.MaxRecentGenres {
		p.RecentGenres = p.RecentGenres[len(p.RecentGenres)-a.config.MaxRecentGenres:]
	}
}

// updateTransitions records the per-user mood transition with its
// trigger game.
func (a *Analyzer) updateTransitions(p *BehaviorPattern, s models.PlaySession) {
	if !models.ValidMood(p.LastMood) || !models.ValidMood(s.Mood) || p.LastMood == s.Mood {
		return
	}
	key := string(p.LastMood) + "->" + string(s.Mood)
	tr, ok := p.Transitions[key]
	if !ok {
		tr = &MoodTransitionRecord{
			From:         p.LastMood,
			To:           s.Mood,
			TriggerGames: make(map[string]bool),
		}
		p.Transitions[key] = tr
	}
	tr.Count++
	tr.TriggerGames[s.GameID] = true
}

// updateDevices aggregates per-device stats.
func (a *Analyzer) updateDevices(p *BehaviorPattern, s models.PlaySession) {
	if s.Device == "" {
		return
	}
	ds, ok := p.Devices[s.Device]
	if !ok {
		ds = &DeviceStats{Device: s.Device}
		p.Devices[s.Device] = ds
	}
	ds.Sessions++
	ds.TotalMinutes += s.DurationMinutes()
	if s.Completed {
		ds.Completed++
	}
}

// sequenceKey joins a genre window into a map key.
func sequenceKey(genres []string) string {
	return strings.Join(genres, ">")
}

// topCounted returns the highest-count key, ties resolving
// alphabetically for determinism.
func topCounted(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best, bestCount := "", 0
	for _, k := range keys {
		if counts[k] > bestCount {
			best, bestCount = k, counts[k]
		}
	}
	return best
}
