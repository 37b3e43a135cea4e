// Ludoscope - Game Library Mood & Behavioral Prediction Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ludoscope

package store

import (
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/ludoscope/internal/mood/resonance"
)

// BadgerResonanceStore implements resonance.Store on BadgerDB. Records
// are keyed resonance:<userID>:<recordID>; the per-user prefix makes
// user queries and deletion a prefix scan.
type BadgerResonanceStore struct {
	db     *badger.DB
	logger zerolog.Logger
}

// NewBadgerResonanceStore creates a BadgerDB-backed resonance store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBadgerResonanceStore(db *badger.DB, logger zerolog.Logger) *BadgerResonanceStore {
	return &BadgerResonanceStore{
		db:     db,
		logger: logger.With().Str("component", "resonance_store").Logger(),
	}
}

// Append adds one record.
func (s *BadgerResonanceStore) Append(record resonance.SessionResonance) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal resonance record: %w", err)
	}
	key := []byte(resonanceKeyPrefix + record.UserID + ":" + record.ID)
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// ForUser returns the user's records, oldest first.
func (s *BadgerResonanceStore) ForUser(userID string) ([]resonance.SessionResonance, error) {
	return s.scan([]byte(resonanceKeyPrefix + userID + ":"))
}

// All returns every record, oldest first.
func (s *BadgerResonanceStore) All() ([]resonance.SessionResonance, error) {
	return s.scan([]byte(resonanceKeyPrefix))
}

// DeleteUser removes a user's records.
func (s *BadgerResonanceStore) DeleteUser(userID string) error {
	return deletePrefix(s.db, []byte(resonanceKeyPrefix+userID+":"))
}

// scan collects and time-orders all records under a prefix. Badger
// orders keys by byte value, not record time, so sorting happens here.
func (s *BadgerResonanceStore) scan(prefix []byte) ([]resonance.SessionResonance, error) {
	var records []resonance.SessionResonance
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix, PrefetchValues: true})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			var record resonance.SessionResonance
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			}); err != nil {
				return fmt.Errorf("decode resonance record: %w", err)
			}
			records = append(records, record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].RecordedAt.Before(records[j].RecordedAt)
	})
	return records, nil
}
