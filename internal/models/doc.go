// Ludoscope - Game Library Mood & Behavioral Prediction Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ludoscope

// Package models defines the shared domain types used across the mood
// engine: play sessions and catalog entries supplied by the library
// manager, behavioral signals derived from them, and the mood/feature
// vectors that flow through the analysis pipeline.
//
// Types here carry no behavior beyond small accessors and clamping
// helpers. Components own their richer learned structures (patterns,
// transitions, resonance records) in their own packages.
package models
