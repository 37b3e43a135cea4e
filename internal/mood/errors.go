// Ludoscope - Game Library Mood & Behavioral Prediction Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ludoscope

package mood

import "errors"

// Domain errors returned at the engine boundary. Internal causes are
// logged with their full chain, then relabeled to one of these so
// callers branch on a small stable set instead of implementation
// detail.
var (
	// ErrAnalysisFailed covers mood analysis and pattern learning failures.
	ErrAnalysisFailed = errors.New("mood analysis failed")

	// ErrForecastFailed covers trend and forecast failures.
	ErrForecastFailed = errors.New("mood forecasting failed")

	// ErrResonanceFailed covers resonance recording and analysis failures.
	ErrResonanceFailed = errors.New("resonance recording failed")
)
