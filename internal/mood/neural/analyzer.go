// Ludoscope - Game Library Mood & Behavioral Prediction Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ludoscope

// Package neural learns per-mood statistical patterns, mood-to-mood
// transitions, and a small feed-forward classifier predicting the
// current mood from recent sessions.
//
// Transition records keep raw counts; probabilities are computed lazily
// per source mood at query time, so probabilities out of any mood always
// sum to 1 over observed targets.
package neural

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/ludoscope/internal/models"
)

// Config contains configuration for the pattern/transition analyzer.
type Config struct {
	// ConfidenceStep bounds how far an existing pattern's confidence
	// moves toward a new batch's observed frequency. Default: 0.25.
	ConfidenceStep float64

	// IntensitySmoothing is the EMA factor for pattern intensity.
	// Default: 0.3.
	IntensitySmoothing float64

	// HistoryLimit bounds the retained session history used for
	// retraining. Default: 2000.
	HistoryLimit int

	// MinTrainSessions is the minimum history size before the network
	// trains. Below it prediction uses the deterministic fallback.
	// Default: 8.
	MinTrainSessions int

	// Network is the classifier architecture.
	Network NetworkConfig
}

// DefaultConfig returns default analyzer configuration.
func DefaultConfig() Config {
	return Config{
		ConfidenceStep:     0.25,
		IntensitySmoothing: 0.3,
		HistoryLimit:       2000,
		MinTrainSessions:   8,
		Network: NetworkConfig{
			InputSize:    EncodedFeatureSize,
			HiddenSizes:  []int{16, 12},
			OutputSize:   len(models.Moods()),
			Activation:   ActivationReLU,
			LearningRate: 0.05,
			Epochs:       30,
			BatchSize:    8,
		},
	}
}

// MoodPattern is the learned statistical profile of one mood. Created
// lazily on first observation and updated incrementally; never deleted.
type MoodPattern struct {
	// Mood is the pattern's mood axis.
	Mood models.Mood `json:"mood"`

	// Confidence in [0,1] tracks how consistently the mood appears.
	Confidence float64 `json:"confidence"`

	// Triggers is the set of session tags observed with this mood.
	Triggers map[string]bool `json:"triggers"`

	// TimeCounts buckets observations by "dayOfWeek-hour".
	TimeCounts map[string]int `json:"time_counts"`

	// GameAssociations is the set of games played in this mood.
	GameAssociations map[string]bool `json:"game_associations"`

	// Intensity is an exponential moving average of reported intensity.
	Intensity float64 `json:"intensity"`

	// Observations counts sessions attributed to this mood.
	Observations int `json:"observations"`
}

// TimePattern is one time-of-day likelihood bucket.
type TimePattern struct {
	Hour       int     `json:"hour"`
	DayOfWeek  int     `json:"day_of_week"`
	Likelihood float64 `json:"likelihood"`
}

// TimePatterns derives per-bucket likelihoods from the raw counts.
func (p *MoodPattern) TimePatterns() []TimePattern {
	if p.Observations == 0 {
		return nil
	}
	out := make([]TimePattern, 0, len(p.TimeCounts))
	for key, count := range p.TimeCounts {
		var dow, hour int
		if _, err := fmt.Sscanf(key, "%d-%d", &dow, &hour); err != nil {
			continue
		}
		out = append(out, TimePattern{
			Hour:       hour,
			DayOfWeek:  dow,
			Likelihood: float64(count) / float64(p.Observations),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DayOfWeek != out[j].DayOfWeek {
			return out[i].DayOfWeek < out[j].DayOfWeek
		}
		return out[i].Hour < out[j].Hour
	})
	return out
}

// PatternStore is the injected backing for learned mood patterns.
// Implementations must be safe for concurrent use.
type PatternStore interface {
	// Get returns the pattern for a mood.
	Get(mood models.Mood) (*MoodPattern, bool)

	// Put upserts a pattern.
	Put(pattern *MoodPattern) error

	// All returns every stored pattern.
	All() ([]*MoodPattern, error)

	// Reset removes all patterns.
	Reset() error
}

// Transition accumulates observations of one mood-to-mood transition.
// Raw counts only; probability is derived at query time.
type Transition struct {
	From            models.Mood     `json:"from"`
	To              models.Mood     `json:"to"`
	Count           int             `json:"count"`
	TotalGapMinutes float64         `json:"total_gap_minutes"`
	Triggers        map[string]bool `json:"triggers"`
}

// AverageGapMinutes is the running average inter-session gap.
func (t *Transition) AverageGapMinutes() float64 {
	if t.Count == 0 {
		return 0
	}
	return t.TotalGapMinutes / float64(t.Count)
}

// TransitionStat is a query-time transition view with its lazily
// normalized probability.
type TransitionStat struct {
	From              models.Mood `json:"from"`
	To                models.Mood `json:"to"`
	Probability       float64     `json:"probability"`
	AverageGapMinutes float64     `json:"average_gap_minutes"`
	Count             int         `json:"count"`
}

// Prediction is the output of PredictCurrentMood.
type Prediction struct {
	// Mood is the predicted current mood.
	Mood models.Mood `json:"mood"`

	// Confidence is the reported class probability, or exactly 0.5 on
	// the untrained fallback path.
	Confidence float64 `json:"confidence"`

	// Fallback reports whether the deterministic fallback was used.
	Fallback bool `json:"fallback"`

	// Factors lists human-readable triggering factors.
	Factors []string `json:"factors,omitempty"`
}

// Analyzer owns the learned mood patterns, the transition table, and
// the classifier. Safe for concurrent use.
type Analyzer struct {
	config  Config
	logger  zerolog.Logger
	catalog map[string]models.Game

	mu          sync.RWMutex
	patterns    PatternStore
	transitions map[string]*Transition
	outCounts   map[models.Mood]int
	history     []models.PlaySession
	net         *Network
	trained     bool
	trainRuns   int
}

// NewAnalyzer creates an analyzer. The game catalog is an explicit
// dependency: it drives the feature encoding and recommendation output.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewAnalyzer(cfg Config, catalog []models.Game, store PatternStore, logger zerolog.Logger) (*Analyzer, error) {
	if cfg.ConfidenceStep <= 0 {
		cfg.ConfidenceStep = 0.25
	}
	if cfg.IntensitySmoothing <= 0 {
		cfg.IntensitySmoothing = 0.3
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 2000
	}
	if cfg.MinTrainSessions <= 0 {
		cfg.MinTrainSessions = 8
	}
	if cfg.Network.InputSize == 0 {
		cfg.Network = DefaultConfig().Network
	}
	if cfg.Network.InputSize != EncodedFeatureSize {
		return nil, fmt.Errorf("network input size %d, want %d", cfg.Network.InputSize, EncodedFeatureSize)
	}
	if cfg.Network.OutputSize != len(models.Moods()) {
		return nil, fmt.Errorf("network output size %d, want %d moods", cfg.Network.OutputSize, len(models.Moods()))
	}
	if store == nil {
		store = NewMemoryPatternStore()
	}

	net, err := NewNetwork(cfg.Network)
	if err != nil {
		return nil, fmt.Errorf("build network: %w", err)
	}

	games := make(map[string]models.Game, len(catalog))
	for _, g := range catalog {
		games[g.ID] = g
	}

	return &Analyzer{
		config:      cfg,
		logger:      logger.With().Str("component", "neural").Logger(),
		catalog:     games,
		patterns:    store,
		transitions: make(map[string]*Transition),
		outCounts:   make(map[models.Mood]int),
		net:         net,
	}, nil
}

// AnalyzeSessions runs the two learning phases over a session batch and
// then trains the classifier on the accumulated history. Sessions with
// no reported mood are skipped by the pattern phases but still retained
// for aggregate encoding.
func (a *Analyzer) AnalyzeSessions(ctx context.Context, sessions []models.PlaySession) error {
	if len(sessions) == 0 {
		return nil
	}

	ordered := make([]models.PlaySession, len(sessions))
	copy(ordered, sessions)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].StartTime.Before(ordered[j].StartTime)
	})

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.extractPatterns(ordered); err != nil {
		return fmt.Errorf("extract patterns: %w", err)
	}
	a.analyzeTransitions(ordered)

	a.history = append(a.history, ordered...)
	if len(a.history) > a.config.HistoryLimit {
		a.history = a.history[len(a.history)-a.config.HistoryLimit:]
	}

	return a.trainLocked(ctx)
}

// ObserveSession folds a single completed session into the learned
// state. The previous session, when given, serves as transition context
// only: it is not re-counted by pattern extraction or re-appended to
// the training history.
func (a *Analyzer) ObserveSession(ctx context.Context, previous *models.PlaySession, session models.PlaySession) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.extractPatterns([]models.PlaySession{session}); err != nil {
		return fmt.Errorf("extract patterns: %w", err)
	}
	if previous != nil {
		a.analyzeTransitions([]models.PlaySession{*previous, session})
	}

	a.history = append(a.history, session)
	if len(a.history) > a.config.HistoryLimit {
		a.history = a.history[len(a.history)-a.config.HistoryLimit:]
	}

	return a.trainLocked(ctx)
}

// Retrain re-trains the classifier on the retained history.
func (a *Analyzer) Retrain(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.trainLocked(ctx)
}

// extractPatterns groups the batch by observed mood and updates each
// mood's pattern. A new pattern's confidence is the batch frequency;
// an existing pattern's confidence moves toward the batch frequency by
// at most ConfidenceStep, so confidence edges rather than jumps.
func (a *Analyzer) extractPatterns(ordered []models.PlaySession) error {
	byMood := make(map[models.Mood][]models.PlaySession)
	total := 0
	for _, s := range ordered {
		if !models.ValidMood(s.Mood) {
			continue
		}
		byMood[s.Mood] = append(byMood[s.Mood], s)
		total++
	}
	if total == 0 {
		return nil
	}

	for mood, group := range byMood {
		pattern, ok := a.patterns.Get(mood)
		if !ok {
			pattern = &MoodPattern{
				Mood:             mood,
				Triggers:         make(map[string]bool),
				TimeCounts:       make(map[string]int),
				GameAssociations: make(map[string]bool),
			}
		}

		batchConfidence := float64(len(group)) / float64(total)
		if !ok {
			pattern.Confidence = batchConfidence
		} else {
			delta := batchConfidence - pattern.Confidence
			if delta > a.config.ConfidenceStep {
				delta = a.config.ConfidenceStep
			} else if delta < -a.config.ConfidenceStep {
				delta = -a.config.ConfidenceStep
			}
			pattern.Confidence = models.Clamp01(pattern.Confidence + delta)
		}

		for _, s := range group {
			pattern.GameAssociations[s.GameID] = true
			for _, tag := range s.Tags {
				pattern.Triggers[tag] = true
			}
			key := fmt.Sprintf("%d-%d", int(s.StartTime.Weekday()), s.StartTime.Hour())
			pattern.TimeCounts[key]++
			pattern.Observations++

			if pattern.Intensity == 0 {
				pattern.Intensity = s.Intensity
			} else {
				alpha := a.config.IntensitySmoothing
				pattern.Intensity = alpha*s.Intensity + (1-alpha)*pattern.Intensity
			}
		}

		if err := a.patterns.Put(pattern); err != nil {
			return fmt.Errorf("store pattern %s: %w", mood, err)
		}
	}
	return nil
}

// analyzeTransitions accumulates a transition record per consecutive
// session pair with differing moods, unioning trigger tags and averaging
// inter-session gaps.
func (a *Analyzer) analyzeTransitions(ordered []models.PlaySession) {
	for i := 1; i < len(ordered); i++ {
		prev, cur := ordered[i-1], ordered[i]
		if !models.ValidMood(prev.Mood) || !models.ValidMood(cur.Mood) || prev.Mood == cur.Mood {
			continue
		}

		key := transitionKey(prev.Mood, cur.Mood)
		tr, ok := a.transitions[key]
		if !ok {
			tr = &Transition{
				From:     prev.Mood,
				To:       cur.Mood,
				Triggers: make(map[string]bool),
			}
			a.transitions[key] = tr
		}

		tr.Count++
		a.outCounts[prev.Mood]++
		tr.TotalGapMinutes += cur.StartTime.Sub(prev.StartTime).Minutes()
		for _, tag := range cur.Tags {
			tr.Triggers[tag] = true
		}
		tr.Triggers[cur.GameID] = true
	}
}

// trainLocked trains the classifier on history. Must hold a.mu.
func (a *Analyzer) trainLocked(ctx context.Context) error {
	samples := a.buildSamples()
	if len(samples) < a.config.MinTrainSessions {
		a.logger.Debug().
			Int("samples", len(samples)).
			Int("min", a.config.MinTrainSessions).
			Msg("skipping training, insufficient labeled history")
		return nil
	}

	start := time.Now()
	loss, err := a.net.Train(ctx, samples)
	if err != nil {
		return fmt.Errorf("train network: %w", err)
	}

	a.trained = true
	a.trainRuns++
	a.logger.Info().
		Int("samples", len(samples)).
		Float64("loss", loss).
		Dur("elapsed", time.Since(start)).
		Msg("mood classifier trained")
	return nil
}

// buildSamples encodes each labeled history session from the sessions
// preceding it, so training matches the prediction-time encoding.
func (a *Analyzer) buildSamples() []Sample {
	moodIndex := make(map[models.Mood]int, len(models.Moods()))
	for i, m := range models.Moods() {
		moodIndex[m] = i
	}

	var samples []Sample
	for i, s := range a.history {
		if !models.ValidMood(s.Mood) {
			continue
		}
		lo := i - recentWindow
		if lo < 0 {
			lo = 0
		}
		window := a.history[lo : i+1]
		samples = append(samples, Sample{
			Input: a.encodeFeatures(s.StartTime, window),
			Label: moodIndex[s.Mood],
		})
	}
	return samples
}

// PredictCurrentMood predicts the mood implied by recent sessions.
// Before the first successful training run it falls back
// deterministically to the most recent observed mood at confidence
// exactly 0.5.
func (a *Analyzer) PredictCurrentMood(now time.Time, recent []models.PlaySession) Prediction {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if !a.trained {
		return a.fallbackPrediction(recent)
	}

	probs, err := a.net.Predict(a.encodeFeatures(now, recent))
	if err != nil {
		a.logger.Warn().Err(err).Msg("prediction failed, using fallback")
		return a.fallbackPrediction(recent)
	}

	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}

	return Prediction{
		Mood:       models.Moods()[best],
		Confidence: probs[best],
		Factors:    a.triggeringFactors(now, recent),
	}
}

// fallbackPrediction is the documented untrained path: most recent
// observed mood, confidence 0.5.
func (a *Analyzer) fallbackPrediction(recent []models.PlaySession) Prediction {
	for i := len(recent) - 1; i >= 0; i-- {
		if models.ValidMood(recent[i].Mood) {
			return Prediction{
				Mood:       recent[i].Mood,
				Confidence: 0.5,
				Fallback:   true,
				Factors:    []string{"classifier untrained; using most recent observed mood"},
			}
		}
	}
	return Prediction{
		Mood:     models.MoodCalm,
		Fallback: true,
		Factors:  []string{"no recent sessions"},
	}
}

// triggeringFactors derives human-readable factors from threshold
// checks on the encoded feature slots.
func (a *Analyzer) triggeringFactors(now time.Time, recent []models.PlaySession) []string {
	var factors []string

	hour := now.Hour()
	if hour >= 22 || hour < 5 {
		factors = append(factors, "late-night session")
	}
	if wd := now.Weekday(); wd == time.Saturday || wd == time.Sunday {
		factors = append(factors, "weekend play")
	}

	if len(recent) > 0 {
		var intensity, completed float64
		for _, s := range recent {
			intensity += s.Intensity
			if s.Completed {
				completed++
			}
		}
		intensity /= float64(len(recent))
		completed /= float64(len(recent))

		if intensity > 0.7 {
			factors = append(factors, "high intensity detected")
		}
		if completed < 0.3 {
			factors = append(factors, "sessions frequently abandoned")
		}
	}

	return factors
}

// TransitionProbability returns the lazily normalized probability of
// the from->to transition: its count over all observed transitions out
// of from.
func (a *Analyzer) TransitionProbability(from, to models.Mood) float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := a.outCounts[from]
	if out == 0 {
		return 0
	}
	tr, ok := a.transitions[transitionKey(from, to)]
	if !ok {
		return 0
	}
	return float64(tr.Count) / float64(out)
}

// Transitions returns all transition stats with derived probabilities,
// sorted by descending probability.
func (a *Analyzer) Transitions() []TransitionStat {
	a.mu.RLock()
	defer a.mu.RUnlock()

	stats := make([]TransitionStat, 0, len(a.transitions))
	for _, tr := range a.transitions {
		out := a.outCounts[tr.From]
		if out == 0 {
			continue
		}
		stats = append(stats, TransitionStat{
			From:              tr.From,
			To:                tr.To,
			Probability:       float64(tr.Count) / float64(out),
			AverageGapMinutes: tr.AverageGapMinutes(),
			Count:             tr.Count,
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Probability > stats[j].Probability
	})
	return stats
}

// Recommendations returns de-duplicated game associations for the
// current mood. When a different target mood is given, games observed
// triggering the direct transition are preferred; failing that, the
// associations of the moods along a transition path are used.
func (a *Analyzer) Recommendations(current, target models.Mood) []string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	add := func(id string) {
		if id == "" || seen[id] {
			return
		}
		// Only recommend ids present in the catalog; transition
		// triggers also contain tag strings.
		if _, ok := a.catalog[id]; !ok {
			return
		}
		seen[id] = true
		out = append(out, id)
	}
	addPattern := func(mood models.Mood) {
		if p, ok := a.patterns.Get(mood); ok {
			for _, id := range sortedKeys(p.GameAssociations) {
				add(id)
			}
		}
	}

	addPattern(current)
	if target == "" || target == current {
		return out
	}

	if tr, ok := a.transitions[transitionKey(current, target)]; ok {
		for _, id := range sortedKeys(tr.Triggers) {
			add(id)
		}
		addPattern(target)
		return out
	}

	// No direct transition: use the first path BFS finds. This is not
	// necessarily the highest-probability path; a weighted search is a
	// known possible refinement.
	path := a.findTransitionPathLocked(current, target)
	for _, mood := range path {
		addPattern(mood)
	}
	return out
}

// FindTransitionPath returns a breadth-first path of moods connecting
// from to to through the transition graph. Returns [from] when the
// moods are equal and nil when no path exists.
func (a *Analyzer) FindTransitionPath(from, to models.Mood) []models.Mood {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.findTransitionPathLocked(from, to)
}

// findTransitionPathLocked is FindTransitionPath without locking.
// Must hold a.mu (read or write).
func (a *Analyzer) findTransitionPathLocked(from, to models.Mood) []models.Mood {
	if from == to {
		return []models.Mood{from}
	}

	adjacency := make(map[models.Mood][]models.Mood)
	for _, tr := range a.transitions {
		if tr.Count > 0 {
			adjacency[tr.From] = append(adjacency[tr.From], tr.To)
		}
	}
	for _, next := range adjacency {
		sort.Slice(next, func(i, j int) bool { return next[i] < next[j] })
	}

	queue := [][]models.Mood{{from}}
	visited := map[models.Mood]bool{from: true}
	for len(queue) > 0 {
		path := queue[0]
		queue = queue[1:]
		last := path[len(path)-1]

		for _, next := range adjacency[last] {
			if visited[next] {
				continue
			}
			extended := append(append([]models.Mood{}, path...), next)
			if next == to {
				return extended
			}
			visited[next] = true
			queue = append(queue, extended)
		}
	}
	return nil
}

// Patterns returns all learned patterns.
func (a *Analyzer) Patterns() ([]*MoodPattern, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.patterns.All()
}

// Pattern returns the learned pattern for one mood.
func (a *Analyzer) Pattern(mood models.Mood) (*MoodPattern, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.patterns.Get(mood)
}

// Trained reports whether the classifier has completed a training run.
func (a *Analyzer) Trained() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.trained
}

// TrainRuns returns the number of completed training runs.
func (a *Analyzer) TrainRuns() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.trainRuns
}

// Reset clears all learned state (patterns, transitions, history).
func (a *Analyzer) Reset() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.transitions = make(map[string]*Transition)
	a.outCounts = make(map[models.Mood]int)
	a.history = nil
	a.trained = false

	net, err := NewNetwork(a.config.Network)
	if err != nil {
		return err
	}
	a.net = net
	return a.patterns.Reset()
}

// transitionKey builds the "from->to" map key.
func transitionKey(from, to models.Mood) string {
	return string(from) + "->" + string(to)
}

// sortedKeys returns map keys in sorted order for deterministic output.
func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
