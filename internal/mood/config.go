// Ludoscope - Game Library Mood & Behavioral Prediction Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ludoscope

package mood

import (
	"fmt"

	"github.com/tomtom215/ludoscope/internal/mood/behavior"
	"github.com/tomtom215/ludoscope/internal/mood/feature"
	"github.com/tomtom215/ludoscope/internal/mood/inference"
	"github.com/tomtom215/ludoscope/internal/mood/neural"
	"github.com/tomtom215/ludoscope/internal/mood/signal"
	"github.com/tomtom215/ludoscope/internal/mood/suggest"
)

// Config aggregates the component configurations of the engine.
type Config struct {
	Signal    signal.Config
	Feature   feature.Config
	Inference inference.Config
	Neural    neural.Config
	Behavior  behavior.Config
	Suggest   suggest.Config

	// MaxSessionHistory bounds the per-user session list the engine
	// retains for incremental analysis. Default: 500.
	MaxSessionHistory int
}

// DefaultConfig returns default engine configuration.
func DefaultConfig() Config {
	return Config{
		Signal:            signal.DefaultConfig(),
		Feature:           feature.DefaultConfig(),
		Inference:         inference.DefaultConfig(),
		Neural:            neural.DefaultConfig(),
		Behavior:          behavior.DefaultConfig(),
		Suggest:           suggest.DefaultConfig(),
		MaxSessionHistory: 500,
	}
}

// Validate checks cross-component configuration consistency.
func (c Config) Validate() error {
	if c.MaxSessionHistory <= 0 {
		return fmt.Errorf("max session history must be positive, got %d", c.MaxSessionHistory)
	}
	if c.Suggest.ScoreFloor < 0 || c.Suggest.ScoreFloor > 1 {
		return fmt.Errorf("suggestion score floor must be in [0,1], got %f", c.Suggest.ScoreFloor)
	}
	if c.Neural.MinTrainSessions < 0 {
		return fmt.Errorf("min train sessions must be non-negative, got %d", c.Neural.MinTrainSessions)
	}
	return nil
}
