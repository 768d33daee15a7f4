package anomaly

import (
	"fmt"

	"spenso/internal/domain"
)

// Train fits the scaler to samples and runs per-sample gradient descent
// on mean-squared reconstruction error. Training must not run
// concurrently with inference on the same handle; retraining a live
// deployment should build a new Model and swap it in.
func (m *Model) Train(samples [][]float64, epochs int, learningRate float64) error {
	if len(m.Layers) == 0 {
		return domain.ErrModelNotInitialized
	}
	if len(samples) == 0 {
		return fmt.Errorf("no training samples")
	}

	padded := make([][]float64, len(samples))
	for i, sample := range samples {
		padded[i] = pad(sample, m.InputWidth)
	}
	m.Scaler.Fit(padded)

	for epoch := 0; epoch < epochs; epoch++ {
		for _, sample := range padded {
			scaled := m.Scaler.Scale(sample)
			m.step(scaled, learningRate)
		}
	}
	return nil
}

// step runs one forward/backward pass for a single scaled sample. The
// reconstruction target is the input itself.
func (m *Model) step(input []float64, learningRate float64) {
	// Forward pass, keeping every layer's activation for backprop.
	activations := make([][]float64, len(m.Layers)+1)
	activations[0] = input
	for i := range m.Layers {
		activations[i+1] = m.Layers[i].apply(activations[i])
	}

	output := activations[len(activations)-1]
	n := float64(len(output))

	// dL/da for the output layer of MSE loss.
	grad := make([]float64, len(output))
	for i := range output {
		grad[i] = 2 * (output[i] - input[i]) / n
	}

	for li := len(m.Layers) - 1; li >= 0; li-- {
		l := &m.Layers[li]
		in := activations[li]
		out := activations[li+1]

		// dL/dz through the activation.
		delta := make([]float64, len(out))
		for o := range out {
			delta[o] = grad[o] * activateDerivative(l.Activation, out[o])
		}

		// Gradient w.r.t. this layer's input, before weights change.
		prevGrad := make([]float64, len(in))
		for o, row := range l.Weights {
			for i, w := range row {
				prevGrad[i] += delta[o] * w
			}
		}

		for o, row := range l.Weights {
			for i := range row {
				row[i] -= learningRate * delta[o] * in[i]
			}
			l.Biases[o] -= learningRate * delta[o]
		}

		grad = prevGrad
	}
}
