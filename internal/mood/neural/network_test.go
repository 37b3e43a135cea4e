// Ludoscope - Game Library Mood & Behavioral Prediction Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ludoscope

package neural

import (
	"context"
	"math"
	"testing"
)

func TestNewNetworkValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  NetworkConfig
		wantErr bool
	}{
		{
			name:   "valid",
			config: NetworkConfig{InputSize: 4, OutputSize: 2},
		},
		{
			name:    "zero input",
			config:  NetworkConfig{InputSize: 0, OutputSize: 2},
			wantErr: true,
		},
		{
			name:    "zero output",
			config:  NetworkConfig{InputSize: 4, OutputSize: 0},
			wantErr: true,
		},
		{
			name:    "unknown activation",
			config:  NetworkConfig{InputSize: 4, OutputSize: 2, Activation: "softplus"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewNetwork(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewNetwork error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPredictReturnsProbabilities(t *testing.T) {
	t.Parallel()

	for _, act := range []Activation{ActivationReLU, ActivationSigmoid, ActivationTanh} {
		t.Run(string(act), func(t *testing.T) {
			t.Parallel()

			n, err := NewNetwork(NetworkConfig{
				InputSize:  4,
				OutputSize: 3,
				Activation: act,
				Seed:       7,
			})
			if err != nil {
				t.Fatalf("NewNetwork: %v", err)
			}

			probs, err := n.Predict([]float64{0.1, 0.9, 0.5, 0.3})
			if err != nil {
				t.Fatalf("Predict: %v", err)
			}

			var sum float64
			for _, p := range probs {
				if p < 0 || p > 1 {
					t.Errorf("probability %g outside [0,1]", p)
				}
				sum += p
			}
			if math.Abs(sum-1) > 1e-9 {
				t.Errorf("probabilities sum to %g, want 1", sum)
			}
		})
	}
}

func TestPredictRejectsWrongInputSize(t *testing.T) {
	t.Parallel()

	n, err := NewNetwork(NetworkConfig{InputSize: 4, OutputSize: 2})
	if err != nil {
		t.Fatalf("NewNetwork: %v", err)
	}

	if _, err := n.Predict([]float64{1, 2}); err == nil {
		t.Error("expected error for wrong input size")
	}
}

// separableSamples is a trivially separable two-class problem: class 0
// lives near the origin, class 1 near (1,1).
func separableSamples() []Sample {
	var samples []Sample
	offsets := []float64{0.0, 0.05, 0.1, 0.15}
	for _, d := range offsets {
		samples = append(samples,
			Sample{Input: []float64{d, d}, Label: 0},
			Sample{Input: []float64{1 - d, 1 - d}, Label: 1},
		)
	}
	return samples
}

func TestTrainLearnsSeparableProblem(t *testing.T) {
	t.Parallel()

	n, err := NewNetwork(NetworkConfig{
		InputSize:    2,
		HiddenSizes:  []int{8},
		OutputSize:   2,
		LearningRate: 0.5,
		Epochs:       200,
		BatchSize:    4,
		Seed:         7,
	})
	if err != nil {
		t.Fatalf("NewNetwork: %v", err)
	}

	loss, err := n.Train(context.Background(), separableSamples())
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	if loss > 0.3 {
		t.Errorf("final epoch loss = %g, want < 0.3 on a separable problem", loss)
	}

	probs, err := n.Predict([]float64{0.02, 0.02})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if probs[0] <= probs[1] {
		t.Errorf("origin sample classified as class 1: %v", probs)
	}

	probs, err = n.Predict([]float64{0.98, 0.98})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if probs[1] <= probs[0] {
		t.Errorf("far sample classified as class 0: %v", probs)
	}
}

func TestTrainHonorsCancellation(t *testing.T) {
	t.Parallel()

	n, err := NewNetwork(NetworkConfig{InputSize: 2, OutputSize: 2, Epochs: 1000})
	if err != nil {
		t.Fatalf("NewNetwork: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := n.Train(ctx, separableSamples()); err == nil {
		t.Error("expected context error from cancelled training")
	}
}

func TestTrainRejectsBadSamples(t *testing.T) {
	t.Parallel()

	n, err := NewNetwork(NetworkConfig{InputSize: 2, OutputSize: 2})
	if err != nil {
		t.Fatalf("NewNetwork: %v", err)
	}

	if _, err := n.Train(context.Background(), nil); err == nil {
		t.Error("expected error for empty training set")
	}
	if _, err := n.Train(context.Background(), []Sample{{Input: []float64{1}, Label: 0}}); err == nil {
		t.Error("expected error for wrong input size")
	}
	if _, err := n.Train(context.Background(), []Sample{{Input: []float64{1, 2}, Label: 5}}); err == nil {
		t.Error("expected error for out-of-range label")
	}
}
