// Ludoscope - Game Library Mood & Behavioral Prediction Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ludoscope

package models

// genreIntensity maps genres to a typical play intensity in [0,1].
// These are heuristic reference values shared by the neural encoder and
// the suggestion fit scoring; unknown genres fall back to 0.5.
var genreIntensity = map[string]float64{
	"shooter":      0.9,
	"fighting":     0.9,
	"moba":         0.85,
	"racing":       0.8,
	"action":       0.75,
	"roguelike":    0.7,
	"platformer":   0.65,
	"sports":       0.65,
	"rpg":          0.55,
	"strategy":     0.5,
	"survival":     0.5,
	"adventure":    0.4,
	"simulation":   0.35,
	"puzzle":       0.3,
	"city-builder": 0.3,
	"casual":       0.2,
	"visual-novel": 0.15,
}

// genreSocialness maps genres to a typical social component in [0,1].
var genreSocialness = map[string]float64{
	"moba":         0.95,
	"shooter":      0.8,
	"party":        0.9,
	"sports":       0.7,
	"fighting":     0.7,
	"mmo":          0.9,
	"racing":       0.5,
	"survival":     0.5,
	"rpg":          0.3,
	"strategy":     0.3,
	"roguelike":    0.2,
	"adventure":    0.15,
	"puzzle":       0.1,
	"simulation":   0.1,
	"city-builder": 0.1,
	"visual-novel": 0.05,
}

// GenreIntensity returns the heuristic intensity for a genre,
// 0.5 when unknown.
func GenreIntensity(genre string) float64 {
	if v, ok := genreIntensity[genre]; ok {
		return v
	}
	return 0.5
}

// GenreSocialness returns the heuristic social component for a genre,
// 0.3 when unknown.
func GenreSocialness(genre string) float64 {
	if v, ok := genreSocialness[genre]; ok {
		return v
	}
	return 0.3
}
