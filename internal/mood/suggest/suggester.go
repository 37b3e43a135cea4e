// Ludoscope - Game Library Mood & Behavioral Prediction Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ludoscope

// Package suggest scores a game catalog against the user's current
// context and returns ranked play suggestions.
//
// Each candidate receives five fit scores in [0,1] (time, mood, energy,
// social, sequence); the overall score is their arithmetic mean.
// Candidates below the floor are dropped, survivors are sorted
// descending and capped. Results are cached per (user, 5-minute window,
// mood, device); any pattern update for the user invalidates the whole
// user prefix eagerly.
package suggest

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/tomtom215/ludoscope/internal/cache"
	"github.com/tomtom215/ludoscope/internal/metrics"
	"github.com/tomtom215/ludoscope/internal/models"
	"github.com/tomtom215/ludoscope/internal/mood/behavior"
)

// Config contains configuration for the suggester.
type Config struct {
	// ScoreFloor drops candidates scoring below it. Default: 0.3.
	ScoreFloor float64

	// MaxSuggestions caps the returned list. Default: 10.
	MaxSuggestions int

	// CacheTTL bounds how long a context's suggestions stay cached.
	// Default: 5m.
	CacheTTL time.Duration

	// RatingTimeout bounds each external rating call. Default: 2s.
	RatingTimeout time.Duration
}

// DefaultConfig returns default suggester configuration.
func DefaultConfig() Config {
	return Config{
		ScoreFloor:     0.3,
		MaxSuggestions: 10,
		CacheTTL:       5 * time.Minute,
		RatingTimeout:  2 * time.Second,
	}
}

// Context captures the moment a suggestion is requested for.
type Context struct {
	UserID           string      `json:"user_id"`
	Now              time.Time   `json:"now"`
	Mood             models.Mood `json:"mood"`
	Energy           float64     `json:"energy"`
	Device           string      `json:"device"`
	AvailableMinutes int         `json:"available_minutes"`
	SocialDesire     float64     `json:"social_desire"`
}

// FitScores breaks a suggestion's score down per dimension.
type FitScores struct {
	Time     float64 `json:"time"`
	Mood     float64 `json:"mood"`
	Energy   float64 `json:"energy"`
	Social   float64 `json:"social"`
	Sequence float64 `json:"sequence"`
}

// Overall is the arithmetic mean of the five fit dimensions.
func (f FitScores) Overall() float64 {
	return (f.Time + f.Mood + f.Energy + f.Social + f.Sequence) / 5
}

// Suggestion is one ranked candidate.
type Suggestion struct {
	GameID                string    `json:"game_id"`
	Title                 string    `json:"title"`
	Score                 float64   `json:"score"`
	Fit                   FitScores `json:"fit"`
	PredictedSatisfaction float64   `json:"predicted_satisfaction"`
	Reason                string    `json:"reason"`
}

// Catalog supplies the candidate games. The dependency is explicit:
// the suggester never reaches into global state to enumerate games.
type Catalog interface {
	// Games returns the full candidate set.
	Games() []models.Game

	// Game returns one game by id.
	Game(id string) (models.Game, bool)
}

// RatingPredictor estimates satisfaction for a (user, game) pair,
// typically backed by an external model service.
type RatingPredictor interface {
	PredictRating(ctx context.Context, userID, gameID string) (float64, error)
}

// Suggester ranks catalog games for a user context.
type Suggester struct {
	config   Config
	logger   zerolog.Logger
	catalog  Catalog
	behavior *behavior.Analyzer
	cache    *cache.Cache
	rater    RatingPredictor
	breaker  *gobreaker.CircuitBreaker[float64]
}

// NewSuggester creates a suggester. catalog is required; rater is
// optional and, when present, is guarded by a circuit breaker so a
// failing rating service degrades suggestions instead of blocking them.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewSuggester(cfg Config, catalog Catalog, ba *behavior.Analyzer, c *cache.Cache, rater RatingPredictor, logger zerolog.Logger) (*Suggester, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if cfg.ScoreFloor <= 0 {
		cfg.ScoreFloor = 0.3
	}
	if cfg.MaxSuggestions <= 0 {
		cfg.MaxSuggestions = 10
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.RatingTimeout <= 0 {
		cfg.RatingTimeout = 2 * time.Second
	}

	s := &Suggester{
		config:   cfg,
		logger:   logger.With().Str("component", "suggest").Logger(),
		catalog:  catalog,
		behavior: ba,
		cache:    c,
		rater:    rater,
	}
	if rater != nil {
		s.breaker = gobreaker.NewCircuitBreaker[float64](gobreaker.Settings{
			Name:    "rating-predictor",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				metrics.CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
				s.logger.Warn().
					Str("breaker", name).
					Str("from", from.String()).
					Str("to", to.String()).
					Msg("rating predictor circuit state changed")
			},
		})
	}
	return s, nil
}

// Suggest returns ranked suggestions for the context. Results are
// served from cache when the same (user, 5-minute window, mood, device)
// was scored before.
func (s *Suggester) Suggest(ctx context.Context, sctx Context) ([]Suggestion, error) {
	if sctx.UserID == "" {
		return nil, fmt.Errorf("context has no user id")
	}
	if sctx.Now.IsZero() {
		sctx.Now = time.Now()
	}

	key := s.cacheKey(sctx)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			if suggestions, ok := cached.([]Suggestion); ok {
				metrics.CacheHits.WithLabelValues("suggestion").Inc()
				return suggestions, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("suggestion").Inc()
	}

	suggestions := s.score(ctx, sctx)

	if s.cache != nil {
		s.cache.SetWithTTL(key, suggestions, s.config.CacheTTL)
	}
	return suggestions, nil
}

// InvalidateUser drops every cached suggestion list for the user.
// Called whenever the user's patterns change.
func (s *Suggester) InvalidateUser(userID string) int {
	if s.cache == nil {
		return 0
	}
	removed := s.cache.DeletePrefix(userID + "|")
	if removed > 0 {
		metrics.CacheInvalidations.WithLabelValues("suggestion").Add(float64(removed))
		s.logger.Debug().
			Str("user_id", userID).
			Int("entries", removed).
			Msg("suggestion cache invalidated")
	}
	return removed
}

// score ranks the full catalog for the context.
func (s *Suggester) score(ctx context.Context, sctx Context) []Suggestion {
	var pattern *behavior.BehaviorPattern
	var prediction behavior.GamePrediction
	var predicted bool
	if s.behavior != nil {
		pattern, _ = s.behavior.Pattern(sctx.UserID)
		prediction, predicted = s.behavior.PredictNextGame(sctx.UserID)
	}

	candidates := s.catalog.Games()
	suggestions := make([]Suggestion, 0, len(candidates))
	for _, game := range candidates {
		fit := FitScores{
			Time:     s.timeFit(sctx, game, pattern),
			Mood:     s.moodFit(sctx.Mood, game),
			Energy:   s.energyFit(sctx.Energy, game),
			Social:   s.socialFit(sctx, game),
			Sequence: s.sequenceFit(game, prediction, predicted),
		}
		score := fit.Overall()
		if score < s.config.ScoreFloor {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			GameID:                game.ID,
			Title:                 game.Title,
			Score:                 score,
			Fit:                   fit,
			PredictedSatisfaction: s.predictSatisfaction(ctx, sctx, game, score),
			Reason:                reasonFor(fit),
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Score != suggestions[j].Score {
			return suggestions[i].Score > suggestions[j].Score
		}
		return suggestions[i].GameID < suggestions[j].GameID
	})
	if len(suggestions) > s.config.MaxSuggestions {
		suggestions = suggestions[:s.config.MaxSuggestions]
	}
	return suggestions
}

// timeFit combines time-slot habit with available-time match.
func (s *Suggester) timeFit(sctx Context, game models.Game, pattern *behavior.BehaviorPattern) float64 {
	fit := 0.5

	if pattern != nil {
		key := fmt.Sprintf("%d-%d", int(sctx.Now.Weekday()), sctx.Now.Hour())
		if slot, ok := pattern.TimeSlots[key]; ok && slot.PreferredGenre() == game.PrimaryGenre() {
			fit = 0.9
		}
	}

	if sctx.AvailableMinutes > 0 && game.AverageSessionMinutes > 0 {
		ratio := float64(sctx.AvailableMinutes) / float64(game.AverageSessionMinutes)
		if ratio > 1 {
			ratio = 1
		}
		fit = (fit + ratio) / 2
	}
	return models.Clamp01(fit)
}

// moodFit scores the game's primary genre against the mood's genre
// affinity profile.
func (s *Suggester) moodFit(mood models.Mood, game models.Game) float64 {
	genre := game.PrimaryGenre()
	if genre == "" || !models.ValidMood(mood) {
		return 0.5
	}
	intensity := models.GenreIntensity(genre)
	social := models.GenreSocialness(genre)

	switch mood {
	case models.MoodCalm:
		return models.Clamp01(1 - intensity)
	case models.MoodCompetitive:
		return models.Clamp01(intensity)
	case models.MoodCurious:
		// Curiosity favors mid-intensity novelty over extremes.
		return models.Clamp01(1 - math.Abs(intensity-0.5)*1.5)
	case models.MoodSocial:
		if game.Multiplayer {
			return models.Clamp01(0.5 + social/2 + 0.25)
		}
		return models.Clamp01(social)
	case models.MoodFocused:
		return models.Clamp01(0.6 + (intensity-0.5)*0.4)
	default:
		return 0.5
	}
}

// energyFit matches reported energy against genre intensity.
func (s *Suggester) energyFit(energy float64, game models.Game) float64 {
	genre := game.PrimaryGenre()
	if genre == "" {
		return 0.5
	}
	return models.Clamp01(1 - math.Abs(models.Clamp01(energy)-models.GenreIntensity(genre)))
}

// socialFit matches social desire against multiplayer capability.
func (s *Suggester) socialFit(sctx Context, game models.Game) float64 {
	desire := models.Clamp01(sctx.SocialDesire)
	if game.Multiplayer {
		return desire
	}
	return 1 - desire
}

// sequenceFit boosts the game matching the behavioral next-game
// prediction, with a smaller boost for matching only the genre.
func (s *Suggester) sequenceFit(game models.Game, prediction behavior.GamePrediction, predicted bool) float64 {
	if !predicted {
		return 0.5
	}
	if prediction.GameID != "" && prediction.GameID == game.ID {
		return 1.0
	}
	if prediction.Genre != "" && prediction.Genre == game.PrimaryGenre() {
		return 0.8
	}
	return 0.4
}

// predictSatisfaction asks the rating service through the circuit
// breaker, falling back to the fit score. The result is scaled down
// when the game does not fit the available time.
func (s *Suggester) predictSatisfaction(ctx context.Context, sctx Context, game models.Game, fitScore float64) float64 {
	satisfaction := fitScore
	if s.rater != nil && s.breaker != nil {
		rated, err := s.breaker.Execute(func() (float64, error) {
			callCtx, cancel := context.WithTimeout(ctx, s.config.RatingTimeout)
			defer cancel()
			return s.rater.PredictRating(callCtx, sctx.UserID, game.ID)
		})
		if err == nil {
			satisfaction = models.Clamp01(rated)
		} else {
			s.logger.Debug().Err(err).Str("game_id", game.ID).Msg("rating predictor unavailable, using fit score")
		}
	}

	if sctx.AvailableMinutes > 0 && game.AverageSessionMinutes > float64(sctx.AvailableMinutes) {
		ratio := float64(sctx.AvailableMinutes) / float64(game.AverageSessionMinutes)
		satisfaction *= 0.5 + 0.5*ratio
	}
	return models.Clamp01(satisfaction)
}

// cacheKey truncates time to 5-minute windows so near-simultaneous
// requests share an entry.
func (s *Suggester) cacheKey(sctx Context) string {
	window := sctx.Now.Truncate(5 * time.Minute).Unix()
	return fmt.Sprintf("%s|%d|%s|%s", sctx.UserID, window, sctx.Mood, sctx.Device)
}

// breakerStateValue maps gobreaker states onto the metric scale
// 0=closed, 1=half-open, 2=open.
func breakerStateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}

// reasonFor names the strongest fit dimension.
func reasonFor(fit FitScores) string {
	best, reason := fit.Time, "fits your usual schedule"
	if fit.Mood > best {
		best, reason = fit.Mood, "matches your current mood"
	}
	if fit.Energy > best {
		best, reason = fit.Energy, "matches your energy level"
	}
	if fit.Social > best {
		best, reason = fit.Social, "matches your social appetite"
	}
	if fit.Sequence > best {
		reason = "continues your recent play pattern"
	}
	return reason
}
