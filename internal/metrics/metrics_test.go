// Ludoscope - Game Library Mood & Behavioral Prediction Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ludoscope

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAnalysis(t *testing.T) {
	before := testutil.ToFloat64(AnalysisRequests.WithLabelValues("analyze", "success"))
	RecordAnalysis("analyze", 12*time.Millisecond, nil)
	after := testutil.ToFloat64(AnalysisRequests.WithLabelValues("analyze", "success"))
	if after != before+1 {
		t.Errorf("success counter = %f, want %f", after, before+1)
	}

	beforeErr := testutil.ToFloat64(AnalysisRequests.WithLabelValues("analyze", "error"))
	RecordAnalysis("analyze", time.Millisecond, errors.New("boom"))
	afterErr := testutil.ToFloat64(AnalysisRequests.WithLabelValues("analyze", "error"))
	if afterErr != beforeErr+1 {
		t.Errorf("error counter = %f, want %f", afterErr, beforeErr+1)
	}
}

func TestRecordTraining(t *testing.T) {
	before := testutil.ToFloat64(TrainingRuns.WithLabelValues("success"))
	RecordTraining(time.Second, nil)
	after := testutil.ToFloat64(TrainingRuns.WithLabelValues("success"))
	if after != before+1 {
		t.Errorf("training runs = %f, want %f", after, before+1)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/mood/{userID}/current", "200"))
	RecordAPIRequest("GET", "/api/v1/mood/{userID}/current", "200", 3*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/mood/{userID}/current", "200"))
	if after != before+1 {
		t.Errorf("api requests = %f, want %f", after, before+1)
	}
}
