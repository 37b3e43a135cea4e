// Ludoscope - Game Library Mood & Behavioral Prediction Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ludoscope

package suggest

import (
	"sort"
	"sync"

	"github.com/tomtom215/ludoscope/internal/models"
)

// MemoryCatalog is an in-memory Catalog backed by a map.
type MemoryCatalog struct {
	mu    sync.RWMutex
	games map[string]models.Game
}

// NewMemoryCatalog creates a catalog seeded with the given games.
func NewMemoryCatalog(games ...models.Game) *MemoryCatalog {
	c := &MemoryCatalog{games: make(map[string]models.Game, len(games))}
	for _, g := range games {
		c.games[g.ID] = g
	}
	return c
}

// Upsert adds or replaces a game.
func (c *MemoryCatalog) Upsert(game models.Game) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.games[game.ID] = game
}

// Games returns all games in stable id order.
func (c *MemoryCatalog) Games() []models.Game {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Game, 0, len(c.games))
	for _, g := range c.games {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Game returns one game by id.
func (c *MemoryCatalog) Game(id string) (models.Game, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	g, ok := c.games[id]
	return g, ok
}

// Len returns the catalog size.
func (c *MemoryCatalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.games)
}
