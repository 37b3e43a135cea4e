// Ludoscope - Game Library Mood & Behavioral Prediction Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ludoscope

package behavior

import "sync"

// MemoryStore is an in-memory Store for single-process deployments
// and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	patterns map[string]*BehaviorPattern
}

// NewMemoryStore creates an empty in-memory behavior store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{patterns: make(map[string]*BehaviorPattern)}
}

// Get returns a deep copy of the pattern for a user, matching the
// fresh-unmarshal semantics of the persistent backing.
func (s *MemoryStore) Get(userID string) (*BehaviorPattern, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.patterns[userID]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// Put upserts a pattern.
func (s *MemoryStore) Put(pattern *BehaviorPattern) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patterns[pattern.UserID] = pattern
	return nil
}

// Delete removes a user's pattern.
func (s *MemoryStore) Delete(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.patterns, userID)
	return nil
}
