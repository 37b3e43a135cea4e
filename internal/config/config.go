// Ludoscope - Game Library Mood & Behavioral Prediction Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ludoscope

// Package config loads and validates the ludoscope server configuration
// from layered sources: built-in defaults, an optional YAML file, and
// environment variables, in increasing order of precedence.
package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/ludoscope/internal/logging"
	"github.com/tomtom215/ludoscope/internal/mood"
	"github.com/tomtom215/ludoscope/internal/store"
)

// Config is the full server configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Store   StoreConfig   `koanf:"store"`
	Catalog CatalogConfig `koanf:"catalog"`
	Engine  EngineConfig  `koanf:"engine"`
	Trainer TrainerConfig `koanf:"trainer"`
	Logging LoggingConfig `koanf:"logging"`
}

// CatalogConfig holds game catalog settings.
type CatalogConfig struct {
	// SeedPath is an optional JSON file of games loaded into the
	// catalog on startup. The catalog API can add more at runtime.
	SeedPath string `koanf:"seed_path"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// StoreConfig holds persistence settings.
type StoreConfig struct {
	// Path is the Badger database directory. Ignored when InMemory.
	Path string `koanf:"path"`

	// InMemory runs the store without persistence. Useful for
	// development and tests.
	InMemory bool `koanf:"in_memory"`
}

// EngineConfig exposes the mood engine knobs that are worth tuning
// from deployment configuration. Everything else uses engine defaults.
type EngineConfig struct {
	MaxSessionHistory int           `koanf:"max_session_history"`
	MinTrainSessions  int           `koanf:"min_train_sessions"`
	SuggestionFloor   float64       `koanf:"suggestion_floor"`
	MaxSuggestions    int           `koanf:"max_suggestions"`
	SuggestionTTL     time.Duration `koanf:"suggestion_ttl"`
	RatingTimeout     time.Duration `koanf:"rating_timeout"`
}

// TrainerConfig holds background retraining settings.
type TrainerConfig struct {
	Enabled        bool          `koanf:"enabled"`
	Interval       time.Duration `koanf:"interval"`
	TrainOnStartup bool          `koanf:"train_on_startup"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for obvious misconfiguration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1,65535], got %d", c.Server.Port)
	}
	if !c.Store.InMemory && c.Store.Path == "" {
		return fmt.Errorf("store.path is required when store.in_memory is false")
	}
	if c.Engine.MaxSessionHistory <= 0 {
		return fmt.Errorf("engine.max_session_history must be positive, got %d", c.Engine.MaxSessionHistory)
	}
	if c.Engine.SuggestionFloor < 0 || c.Engine.SuggestionFloor > 1 {
		return fmt.Errorf("engine.suggestion_floor must be in [0,1], got %f", c.Engine.SuggestionFloor)
	}
	if c.Trainer.Enabled && c.Trainer.Interval < time.Minute {
		return fmt.Errorf("trainer.interval must be at least 1m, got %s", c.Trainer.Interval)
	}
	return nil
}

// MoodConfig maps deployment settings onto the full engine config,
// leaving unexposed knobs at their defaults.
func (c *Config) MoodConfig() mood.Config {
	mc := mood.DefaultConfig()
	mc.MaxSessionHistory = c.Engine.MaxSessionHistory
	mc.Neural.MinTrainSessions = c.Engine.MinTrainSessions
	mc.Suggest.ScoreFloor = c.Engine.SuggestionFloor
	mc.Suggest.MaxSuggestions = c.Engine.MaxSuggestions
	mc.Suggest.CacheTTL = c.Engine.SuggestionTTL
	mc.Suggest.RatingTimeout = c.Engine.RatingTimeout
	return mc
}

// StoreOptions maps persistence settings to store options.
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Path:     c.Store.Path,
		InMemory: c.Store.InMemory,
	}
}

// LoggingOptions maps log settings to the logging package config.
func (c *Config) LoggingOptions() logging.Config {
	lc := logging.DefaultConfig()
	lc.Level = c.Logging.Level
	lc.Format = c.Logging.Format
	lc.Caller = c.Logging.Caller
	return lc
}
