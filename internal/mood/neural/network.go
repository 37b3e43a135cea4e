// Ludoscope - Game Library Mood & Behavioral Prediction Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ludoscope

package neural

import (
	"context"
	"fmt"
	"math"
	"math/rand"
)

// Activation selects the hidden-layer activation function.
type Activation string

const (
	// ActivationReLU is max(0, x).
	ActivationReLU Activation = "relu"
	// ActivationSigmoid is the logistic function.
	ActivationSigmoid Activation = "sigmoid"
	// ActivationTanh is the hyperbolic tangent.
	ActivationTanh Activation = "tanh"
)

// NetworkConfig contains construction-time network architecture.
type NetworkConfig struct {
	// InputSize is the input vector dimension.
	InputSize int

	// HiddenSizes lists the hidden layer widths, in order.
	// Default: [16, 12].
	HiddenSizes []int

	// OutputSize is the number of output classes.
	OutputSize int

	// Activation is the hidden-layer activation. Default: relu.
	Activation Activation

	// LearningRate is the SGD step size. Default: 0.05.
	LearningRate float64

	// Epochs bounds the training loop. Default: 30.
	Epochs int

	// BatchSize is the mini-batch size. Default: 8.
	BatchSize int

	// Seed seeds weight initialization and batch shuffling for
	// deterministic training. If zero, a fixed default is used.
	Seed int64
}

// Sample is one training example: an encoded feature vector and the
// index of its mood class.
type Sample struct {
	Input []float64
	Label int
}

// Network is a small feed-forward classifier with a softmax output
// layer, trained by mini-batch gradient descent on cross-entropy loss.
// Not safe for concurrent use; the analyzer serializes access.
type Network struct {
	config  NetworkConfig
	weights [][][]float64 // weights[l][out][in]
	biases  [][]float64   // biases[l][out]
	rng     *rand.Rand
}

// NewNetwork creates a network with small random initial weights.
func NewNetwork(cfg NetworkConfig) (*Network, error) {
	if cfg.InputSize <= 0 {
		return nil, fmt.Errorf("input size must be positive, got %d", cfg.InputSize)
	}
	if cfg.OutputSize <= 0 {
		return nil, fmt.Errorf("output size must be positive, got %d", cfg.OutputSize)
	}
	if len(cfg.HiddenSizes) == 0 {
		cfg.HiddenSizes = []int{16, 12}
	}
	if cfg.Activation == "" {
		cfg.Activation = ActivationReLU
	}
	switch cfg.Activation {
	case ActivationReLU, ActivationSigmoid, ActivationTanh:
	default:
		return nil, fmt.Errorf("unknown activation %q", cfg.Activation)
	}
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = 0.05
	}
	if cfg.Epochs <= 0 {
		cfg.Epochs = 30
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 8
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = 42
	}

	sizes := append([]int{cfg.InputSize}, cfg.HiddenSizes...)
	sizes = append(sizes, cfg.OutputSize)

	n := &Network{
		config: cfg,
		rng:    rand.New(rand.NewSource(seed)), //nolint:gosec // deterministic init, not cryptographic
	}

	for l := 1; l < len(sizes); l++ {
		in, out := sizes[l-1], sizes[l]
		// Xavier-style scaling keeps initial activations in a sane range.
		scale := math.Sqrt(2.0 / float64(in))
		weights := make([][]float64, out)
		for o := range weights {
			row := make([]float64, in)
			for j := range row {
				row[j] = n.rng.NormFloat64() * scale
			}
			weights[o] = row
		}
		n.weights = append(n.weights, weights)
		n.biases = append(n.biases, make([]float64, out))
	}

	return n, nil
}

// Predict runs a forward pass and returns the softmax class
// probabilities.
func (n *Network) Predict(input []float64) ([]float64, error) {
	if len(input) != n.config.InputSize {
		return nil, fmt.Errorf("input size %d, want %d", len(input), n.config.InputSize)
	}
	activations, _ := n.forward(input)
	return activations[len(activations)-1], nil
}

// Train runs bounded mini-batch gradient descent over the samples and
// returns the mean cross-entropy loss of the final epoch. Honors
// context cancellation between batches.
func (n *Network) Train(ctx context.Context, samples []Sample) (float64, error) {
	if len(samples) == 0 {
		return 0, fmt.Errorf("no training samples")
	}
	for _, s := range samples {
		if len(s.Input) != n.config.InputSize {
			return 0, fmt.Errorf("sample input size %d, want %d", len(s.Input), n.config.InputSize)
		}
		if s.Label < 0 || s.Label >= n.config.OutputSize {
			return 0, fmt.Errorf("sample label %d outside [0,%d)", s.Label, n.config.OutputSize)
		}
	}

	order := make([]int, len(samples))
	for i := range order {
		order[i] = i
	}

	var epochLoss float64
	for epoch := 0; epoch < n.config.Epochs; epoch++ {
		n.rng.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})

		epochLoss = 0
		for start := 0; start < len(order); start += n.config.BatchSize {
			if err := ctx.Err(); err != nil {
				return epochLoss, err
			}

			end := start + n.config.BatchSize
			if end > len(order) {
				end = len(order)
			}
			batch := order[start:end]
			epochLoss += n.trainBatch(samples, batch)
		}
		epochLoss /= float64(len(samples))
	}

	return epochLoss, nil
}

// trainBatch accumulates gradients over one mini-batch and applies a
// single averaged SGD update. Returns the summed sample losses.
func (n *Network) trainBatch(samples []Sample, batch []int) float64 {
	gradW := make([][][]float64, len(n.weights))
	gradB := make([][]float64, len(n.biases))
	for l := range n.weights {
		gradW[l] = make([][]float64, len(n.weights[l]))
		for o := range n.weights[l] {
			gradW[l][o] = make([]float64, len(n.weights[l][o]))
		}
		gradB[l] = make([]float64, len(n.biases[l]))
	}

	var loss float64
	for _, idx := range batch {
		s := samples[idx]
		activations, preacts := n.forward(s.Input)
		probs := activations[len(activations)-1]
		loss += crossEntropy(probs, s.Label)

		// Output delta for softmax + cross-entropy: p - y.
		delta := make([]float64, len(probs))
		copy(delta, probs)
		delta[s.Label] -= 1

		for l := len(n.weights) - 1; l >= 0; l-- {
			prev := activations[l]
			for o := range n.weights[l] {
				gradB[l][o] += delta[o]
				for j := range n.weights[l][o] {
					gradW[l][o][j] += delta[o] * prev[j]
				}
			}

			if l == 0 {
				break
			}

			next := make([]float64, len(n.weights[l][0]))
			for j := range next {
				var sum float64
				for o := range n.weights[l] {
					sum += n.weights[l][o][j] * delta[o]
				}
				next[j] = sum * n.activationDerivative(preacts[l-1][j], activations[l][j])
			}
			delta = next
		}
	}

	step := n.config.LearningRate / float64(len(batch))
	for l := range n.weights {
		for o := range n.weights[l] {
			n.biases[l][o] -= step * gradB[l][o]
			for j := range n.weights[l][o] {
				n.weights[l][o][j] -= step * gradW[l][o][j]
			}
		}
	}

	return loss
}

// forward returns the per-layer post-activation values (index 0 is the
// input itself) and the hidden-layer pre-activations.
func (n *Network) forward(input []float64) (activations [][]float64, preacts [][]float64) {
	activations = make([][]float64, 0, len(n.weights)+1)
	activations = append(activations, input)
	preacts = make([][]float64, 0, len(n.weights))

	current := input
	for l := range n.weights {
		out := make([]float64, len(n.weights[l]))
		for o := range n.weights[l] {
			sum := n.biases[l][o]
			for j, w := range n.weights[l][o] {
				sum += w * current[j]
			}
			out[o] = sum
		}

		if l == len(n.weights)-1 {
			out = softmax(out)
			activations = append(activations, out)
			break
		}

		preacts = append(preacts, out)
		activated := make([]float64, len(out))
		for j, x := range out {
			activated[j] = n.activate(x)
		}
		activations = append(activations, activated)
		current = activated
	}

	return activations, preacts
}

// activate applies the configured hidden activation.
func (n *Network) activate(x float64) float64 {
	switch n.config.Activation {
	case ActivationSigmoid:
		return 1 / (1 + math.Exp(-x))
	case ActivationTanh:
		return math.Tanh(x)
	default:
		return math.Max(0, x)
	}
}

// activationDerivative evaluates the derivative at a pre-activation x,
// given the corresponding post-activation a.
func (n *Network) activationDerivative(x, a float64) float64 {
	switch n.config.Activation {
	case ActivationSigmoid:
		return a * (1 - a)
	case ActivationTanh:
		return 1 - a*a
	default:
		if x > 0 {
			return 1
		}
		return 0
	}
}

// softmax converts logits to probabilities, shifted for stability.
func softmax(logits []float64) []float64 {
	maxLogit := logits[0]
	for _, x := range logits[1:] {
		if x > maxLogit {
			maxLogit = x
		}
	}

	out := make([]float64, len(logits))
	var sum float64
	for i, x := range logits {
		out[i] = math.Exp(x - maxLogit)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// crossEntropy is -log p(label), floored to avoid Inf.
func crossEntropy(probs []float64, label int) float64 {
	p := probs[label]
	if p < 1e-12 {
		p = 1e-12
	}
	return -math.Log(p)
}
