// Ludoscope - Game Library Mood & Behavioral Prediction Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ludoscope

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config failed validation: %v", err)
	}
	if cfg.Server.Port != 4312 {
		t.Errorf("default port = %d, want 4312", cfg.Server.Port)
	}
	if cfg.Engine.MaxSessionHistory != 500 {
		t.Errorf("default max_session_history = %d, want 500", cfg.Engine.MaxSessionHistory)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("STORE_IN_MEMORY", "true")
	t.Setenv("ENGINE_SUGGESTION_FLOOR", "0.5")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d, want 9000", cfg.Server.Port)
	}
	if !cfg.Store.InMemory {
		t.Error("expected store.in_memory override")
	}
	if cfg.Engine.SuggestionFloor != 0.5 {
		t.Errorf("suggestion_floor = %f, want 0.5", cfg.Engine.SuggestionFloor)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadUnmappedEnvIgnored(t *testing.T) {
	t.Setenv("RANDOM_UNRELATED_VAR", "zzz")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("host = %q, want default", cfg.Server.Host)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("server:\n  port: 8123\ntrainer:\n  interval: 2h\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8123 {
		t.Errorf("port = %d, want 8123", cfg.Server.Port)
	}
	if cfg.Trainer.Interval != 2*time.Hour {
		t.Errorf("trainer interval = %s, want 2h", cfg.Trainer.Interval)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port zero", func(c *Config) { c.Server.Port = 0 }},
		{"missing store path", func(c *Config) { c.Store.Path = ""; c.Store.InMemory = false }},
		{"negative history", func(c *Config) { c.Engine.MaxSessionHistory = -1 }},
		{"floor above one", func(c *Config) { c.Engine.SuggestionFloor = 1.5 }},
		{"trainer interval too short", func(c *Config) { c.Trainer.Enabled = true; c.Trainer.Interval = time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := defaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestMoodConfigMapping(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.Engine.MinTrainSessions = 20
	cfg.Engine.MaxSuggestions = 3

	mc := cfg.MoodConfig()
	if mc.Neural.MinTrainSessions != 20 {
		t.Errorf("MinTrainSessions = %d, want 20", mc.Neural.MinTrainSessions)
	}
	if mc.Suggest.MaxSuggestions != 3 {
		t.Errorf("MaxSuggestions = %d, want 3", mc.Suggest.MaxSuggestions)
	}
	// Unexposed knobs keep engine defaults.
	if mc.Inference.Steepness != 4.0 {
		t.Errorf("Steepness = %f, want default 4.0", mc.Inference.Steepness)
	}
}
