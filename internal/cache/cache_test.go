// Ludoscope - Game Library Mood & Behavioral Prediction Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ludoscope

package cache

import (
	"testing"
	"time"
)

func TestCacheSetGet(t *testing.T) {
	t.Parallel()

	c := New(time.Minute)
	defer c.Close()

	c.Set("a", 1)

	got, ok := c.Get("a")
	if !ok {
		t.Fatal("expected hit for key a")
	}
	if got.(int) != 1 {
		t.Errorf("got %v, want 1", got)
	}

	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss for unknown key")
	}
}

func TestCacheExpiration(t *testing.T) {
	t.Parallel()

	c := New(time.Minute)
	defer c.Close()

	c.SetWithTTL("a", 1, -time.Second)

	if _, ok := c.Get("a"); ok {
		t.Error("expected expired entry to miss")
	}
	if c.Len() != 0 {
		t.Errorf("expected expired entry removed, len=%d", c.Len())
	}
}

func TestCacheDeletePrefix(t *testing.T) {
	t.Parallel()

	c := New(time.Minute)
	defer c.Close()

	c.Set("user1|a", 1)
	c.Set("user1|b", 2)
	c.Set("user2|a", 3)

	removed := c.DeletePrefix("user1|")
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}

	if _, ok := c.Get("user1|a"); ok {
		t.Error("user1|a should be invalidated")
	}
	if _, ok := c.Get("user2|a"); !ok {
		t.Error("user2|a should survive prefix invalidation")
	}
}

func TestCacheStats(t *testing.T) {
	t.Parallel()

	c := New(time.Minute)
	defer c.Close()

	c.Set("a", 1)
	c.Get("a")
	c.Get("a")
	c.Get("miss")

	stats := c.GetStats()
	if stats.Hits != 2 {
		t.Errorf("hits = %d, want 2", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("misses = %d, want 1", stats.Misses)
	}

	rate := c.HitRate()
	if rate < 66 || rate > 67 {
		t.Errorf("hit rate = %.2f, want ~66.67", rate)
	}
}

func TestCacheClear(t *testing.T) {
	t.Parallel()

	c := New(time.Minute)
	defer c.Close()

	c.Set("a", 1)
	c.Set("b", 2)
	c.Clear()

	if c.Len() != 0 {
		t.Errorf("len after clear = %d, want 0", c.Len())
	}
}
