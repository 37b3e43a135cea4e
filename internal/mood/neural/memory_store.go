// Ludoscope - Game Library Mood & Behavioral Prediction Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ludoscope

package neural

import (
	"sync"

	"github.com/tomtom215/ludoscope/internal/models"
)

// MemoryPatternStore is the in-memory PatternStore used by tests and as
// the default backing when none is injected.
type MemoryPatternStore struct {
	mu       sync.RWMutex
	patterns map[models.Mood]*MoodPattern
}

// NewMemoryPatternStore creates an empty in-memory pattern store.
func NewMemoryPatternStore() *MemoryPatternStore {
	return &MemoryPatternStore{
		patterns: make(map[models.Mood]*MoodPattern),
	}
}

// Get returns the pattern for a mood.
func (s *MemoryPatternStore) Get(mood models.Mood) (*MoodPattern, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.patterns[mood]
	return p, ok
}

// Put upserts a pattern.
func (s *MemoryPatternStore) Put(pattern *MoodPattern) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patterns[pattern.Mood] = pattern
	return nil
}

// All returns every stored pattern in canonical mood order.
func (s *MemoryPatternStore) All() ([]*MoodPattern, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*MoodPattern, 0, len(s.patterns))
	for _, mood := range models.Moods() {
		if p, ok := s.patterns[mood]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// Reset removes all patterns.
func (s *MemoryPatternStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patterns = make(map[models.Mood]*MoodPattern)
	return nil
}
