// Ludoscope - Game Library Mood & Behavioral Prediction Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ludoscope

package models

import "time"

// APIResponse is the standard envelope for all API payloads.
type APIResponse struct {
	// Status is "success" or "error".
	Status string `json:"status"`

	// Data carries the response payload on success.
	Data interface{} `json:"data,omitempty"`

	// Error carries error details on failure.
	Error *APIError `json:"error,omitempty"`

	// Metadata carries response metadata.
	Metadata Metadata `json:"metadata"`
}

// APIError describes a request failure.
type APIError struct {
	// Code is a stable machine-readable error code.
	Code string `json:"code"`

	// Message is a human-readable description.
	Message string `json:"message"`

	// Details carries structured context such as failed fields.
	Details map[string]interface{} `json:"details,omitempty"`
}

// Metadata carries response timing information.
type Metadata struct {
	// Timestamp is when the response was produced.
	Timestamp time.Time `json:"timestamp"`

	// QueryTimeMS is the server-side processing time in milliseconds.
	QueryTimeMS int64 `json:"query_time_ms"`

	// RequestID is the correlation ID for tracing.
	RequestID string `json:"request_id,omitempty"`
}
