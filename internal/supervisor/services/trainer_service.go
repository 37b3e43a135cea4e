// Ludoscope - Game Library Mood & Behavioral Prediction Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ludoscope

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/ludoscope/internal/metrics"
)

// Trainer is the retraining surface of the mood engine. An interface
// keeps the service decoupled from the engine package.
type Trainer interface {
	Retrain(ctx context.Context) error
}

// TrainerServiceConfig holds configuration for the trainer service.
type TrainerServiceConfig struct {
	// TrainOnStartup triggers an immediate training pass when the
	// service starts.
	TrainOnStartup bool

	// Interval is how often to retrain the network.
	Interval time.Duration
}

// TrainerService periodically retrains the mood engine's network from
// accumulated patterns. A rate limiter guards against restart storms
// re-triggering expensive training back to back: even if the service
// crashes and is restarted by the supervisor, training runs at most
// once per interval.
type TrainerService struct {
	trainer Trainer
	config  TrainerServiceConfig
	limiter *rate.Limiter
	logger  zerolog.Logger
	name    string
}

// NewTrainerService creates the trainer service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewTrainerService(trainer Trainer, cfg TrainerServiceConfig, logger zerolog.Logger) *TrainerService {
	if cfg.Interval <= 0 {
		cfg.Interval = 6 * time.Hour
	}
	return &TrainerService{
		trainer: trainer,
		config:  cfg,
		limiter: rate.NewLimiter(rate.Every(cfg.Interval), 1),
		logger:  logger.With().Str("service", "trainer").Logger(),
		name:    "trainer-service",
	}
}

// Serve implements the suture.Service interface.
func (s *TrainerService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("train_on_startup", s.config.TrainOnStartup).
		Dur("interval", s.config.Interval).
		Msg("trainer service starting")

	if s.config.TrainOnStartup && s.limiter.Allow() {
		if err := s.train(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("startup training failed (will retry on schedule)")
		}
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("trainer service shutting down")
			return ctx.Err()

		case <-ticker.C:
			if !s.limiter.Allow() {
				s.logger.Debug().Msg("training skipped by rate limiter")
				continue
			}
			if err := s.train(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("scheduled training failed")
			}
		}
	}
}

// train performs one training cycle with a bounded context.
func (s *TrainerService) train(ctx context.Context) error {
	trainCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()

	start := time.Now()
	err := s.trainer.Retrain(trainCtx)
	metrics.RecordTraining(time.Since(start), err)
	if err != nil {
		return err
	}

	s.logger.Info().
		Dur("duration", time.Since(start)).
		Msg("network training complete")
	return nil
}

// String returns the service name for logging.
func (s *TrainerService) String() string {
	return s.name
}
