// Ludoscope - Game Library Mood & Behavioral Prediction Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ludoscope

package store

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/ludoscope/internal/models"
	"github.com/tomtom215/ludoscope/internal/mood/neural"
)

// BadgerPatternStore implements neural.PatternStore on BadgerDB.
type BadgerPatternStore struct {
	db     *badger.DB
	logger zerolog.Logger
}

// NewBadgerPatternStore creates a BadgerDB-backed mood pattern store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBadgerPatternStore(db *badger.DB, logger zerolog.Logger) *BadgerPatternStore {
	return &BadgerPatternStore{
		db:     db,
		logger: logger.With().Str("component", "pattern_store").Logger(),
	}
}

// Get returns the pattern for a mood.
func (s *BadgerPatternStore) Get(mood models.Mood) (*neural.MoodPattern, bool) {
	var pattern neural.MoodPattern
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(patternKeyPrefix + string(mood)))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &pattern)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false
	}
	if err != nil {
		s.logger.Error().Err(err).Str("mood", string(mood)).Msg("load mood pattern failed")
		return nil, false
	}
	return &pattern, true
}

// Put upserts a pattern.
func (s *BadgerPatternStore) Put(pattern *neural.MoodPattern) error {
	data, err := json.Marshal(pattern)
	if err != nil {
		return fmt.Errorf("marshal mood pattern: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(patternKeyPrefix+string(pattern.Mood)), data)
	})
}

// All returns every stored pattern in canonical mood order.
func (s *BadgerPatternStore) All() ([]*neural.MoodPattern, error) {
	out := make([]*neural.MoodPattern, 0, len(models.Moods()))
	for _, mood := range models.Moods() {
		if p, ok := s.Get(mood); ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// Reset removes all patterns.
func (s *BadgerPatternStore) Reset() error {
	return deletePrefix(s.db, []byte(patternKeyPrefix))
}
