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

	"github.com/tomtom215/ludoscope/internal/mood/behavior"
)

// BadgerBehaviorStore implements behavior.Store on BadgerDB.
type BadgerBehaviorStore struct {
	db     *badger.DB
	logger zerolog.Logger
}

// NewBadgerBehaviorStore creates a BadgerDB-backed behavior store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBadgerBehaviorStore(db *badger.DB, logger zerolog.Logger) *BadgerBehaviorStore {
	return &BadgerBehaviorStore{
		db:     db,
		logger: logger.With().Str("component", "behavior_store").Logger(),
	}
}

// Get returns the pattern for a user.
func (s *BadgerBehaviorStore) Get(userID string) (*behavior.BehaviorPattern, bool) {
	var pattern behavior.BehaviorPattern
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(behaviorKeyPrefix + userID))
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
		s.logger.Error().Err(err).Str("user_id", userID).Msg("load behavior pattern failed")
		return nil, false
	}
	return &pattern, true
}

// Put upserts a pattern.
func (s *BadgerBehaviorStore) Put(pattern *behavior.BehaviorPattern) error {
	data, err := json.Marshal(pattern)
	if err != nil {
		return fmt.Errorf("marshal behavior pattern: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(behaviorKeyPrefix+pattern.UserID), data)
	})
}

// Delete removes a user's pattern.
func (s *BadgerBehaviorStore) Delete(userID string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(behaviorKeyPrefix + userID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}
