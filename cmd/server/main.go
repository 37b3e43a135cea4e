// Ludoscope - Game Library Mood & Behavioral Prediction Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ludoscope

// Command server runs the ludoscope HTTP API with a supervised mood
// engine behind it.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/ludoscope/internal/api"
	"github.com/tomtom215/ludoscope/internal/config"
	"github.com/tomtom215/ludoscope/internal/logging"
	"github.com/tomtom215/ludoscope/internal/models"
	"github.com/tomtom215/ludoscope/internal/mood"
	"github.com/tomtom215/ludoscope/internal/mood/suggest"
	"github.com/tomtom215/ludoscope/internal/store"
	"github.com/tomtom215/ludoscope/internal/supervisor"
	"github.com/tomtom215/ludoscope/internal/supervisor/services"
)

func main() {
	// Load configuration first to get logging settings.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(cfg.LoggingOptions())
	logger := logging.Logger()

	logging.Info().
		Str("store_path", cfg.Store.Path).
		Bool("in_memory", cfg.Store.InMemory).
		Bool("trainer_enabled", cfg.Trainer.Enabled).
		Msg("Starting ludoscope")

	db, err := store.Open(cfg.StoreOptions())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open store")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()

	catalog := suggest.NewMemoryCatalog()
	if cfg.Catalog.SeedPath != "" {
		count, err := seedCatalog(catalog, cfg.Catalog.SeedPath)
		if err != nil {
			logging.Fatal().Err(err).Str("path", cfg.Catalog.SeedPath).Msg("Failed to seed catalog")
		}
		logging.Info().Int("games", count).Msg("Catalog seeded")
	}

	stores := mood.Stores{
		Patterns:  store.NewBadgerPatternStore(db, logger),
		Behavior:  store.NewBadgerBehaviorStore(db, logger),
		Resonance: store.NewBadgerResonanceStore(db, logger),
	}

	engine, err := mood.NewEngine(cfg.MoodConfig(), catalog, stores, nil, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build mood engine")
	}
	defer engine.Close()
	logging.Info().Msg("Mood engine initialized")

	tree, err := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build supervisor tree")
	}

	if cfg.Trainer.Enabled {
		tree.AddEngineService(services.NewTrainerService(engine, services.TrainerServiceConfig{
			TrainOnStartup: cfg.Trainer.TrainOnStartup,
			Interval:       cfg.Trainer.Interval,
		}, logger))
		logging.Info().Dur("interval", cfg.Trainer.Interval).Msg("Trainer service added")
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(engine, catalog, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Drain until the supervisor has fully stopped.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	logging.Info().Msg("Ludoscope stopped gracefully")
}

// seedCatalog loads a JSON array of games into the catalog.
func seedCatalog(catalog *suggest.MemoryCatalog, path string) (int, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return 0, fmt.Errorf("read catalog seed: %w", err)
	}

	var games []models.Game
	if err := json.Unmarshal(data, &games); err != nil {
		return 0, fmt.Errorf("parse catalog seed: %w", err)
	}

	for _, game := range games {
		if game.ID == "" {
			return 0, fmt.Errorf("catalog seed contains a game without an id")
		}
		catalog.Upsert(game)
	}
	return len(games), nil
}
