// Ludoscope - Game Library Mood & Behavioral Prediction Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ludoscope

package resonance

import "sync"

// MemoryStore is an in-memory Store for single-process deployments
// and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	byUser  map[string][]SessionResonance
	ordered []SessionResonance
}

// NewMemoryStore creates an empty in-memory resonance store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byUser: make(map[string][]SessionResonance)}
}

// Append adds one record.
func (s *MemoryStore) Append(record SessionResonance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byUser[record.UserID] = append(s.byUser[record.UserID], record)
	s.ordered = append(s.ordered, record)
	return nil
}

// ForUser returns the user's records, oldest first.
func (s *MemoryStore) ForUser(userID string) ([]SessionResonance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := s.byUser[userID]
	out := make([]SessionResonance, len(records))
	copy(out, records)
	return out, nil
}

// All returns every record, oldest first.
func (s *MemoryStore) All() ([]SessionResonance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]SessionResonance, len(s.ordered))
	copy(out, s.ordered)
	return out, nil
}

// DeleteUser removes a user's records.
func (s *MemoryStore) DeleteUser(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byUser, userID)
	kept := s.ordered[:0]
	for _, rec := range s.ordered {
		if rec.UserID != userID {
			kept = append(kept, rec)
		}
	}
	s.ordered = kept
	return nil
}
