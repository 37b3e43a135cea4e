// Ludoscope - Game Library Mood & Behavioral Prediction Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ludoscope

package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// correlationKey is the context key for correlation IDs.
type correlationKey struct{}

// WithCorrelationID returns a context carrying the given correlation ID.
// The ID is attached to every log event emitted through Ctx.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationID extracts the correlation ID from the context.
// Returns an empty string if none is set.
func CorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationKey{}).(string); ok {
		return id
	}
	return ""
}

// Ctx returns a logger bound to the context's correlation ID, if any.
// Returns a pointer, like zerolog.Ctx, so events chain directly off the
// call.
//
//	logging.Ctx(ctx).Info().Str("user_id", id).Msg("request processed")
func Ctx(ctx context.Context) *zerolog.Logger {
	logger := Logger()
	if id := CorrelationID(ctx); id != "" {
		logger = logger.With().Str("correlation_id", id).Logger()
	}
	return &logger
}
