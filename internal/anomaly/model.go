// Package anomaly implements an autoencoder reconstruction model over
// expense feature vectors. The model learns the manifold of typical
// expenses and flags statistical outliers by reconstruction error;
// labeled fraud examples are too scarce for a supervised classifier.
package anomaly

import (
	"fmt"
	"math"
	"math/rand"

	"spenso/internal/domain"
)

const (
	activationRelu    = "relu"
	activationSigmoid = "sigmoid"
)

// DefaultInputWidth is the fixed feature width the default topology
// expects. Feature vectors are padded or truncated to the model's width
// at scoring time.
const DefaultInputWidth = 10

// layer is one dense layer: out = activation(W*in + b).
type layer struct {
	Weights    [][]float64 `json:"weights"` // [outDim][inDim]
	Biases     []float64   `json:"biases"`
	Activation string      `json:"activation"`
}

// Model is an explicit anomaly model handle. A built or loaded Model is
// immutable during inference and therefore safe to share across
// concurrent pipeline runs without locking; retraining produces a new
// handle instead of mutating one in use.
type Model struct {
	InputWidth int     `json:"input_width"`
	Layers     []layer `json:"layers"`
	Scaler     *Scaler `json:"scaler"`
	Threshold  float64 `json:"threshold"`
}

// NewModel creates an untrained autoencoder with the source topology:
// inputWidth-5-2-5-inputWidth, relu hidden layers, sigmoid output.
// Weights are seeded so tests and repeated training runs are
// reproducible.
func NewModel(inputWidth int, threshold float64, seed int64) *Model {
	rng := rand.New(rand.NewSource(seed))
	dims := []int{inputWidth, 5, 2, 5, inputWidth}
	activations := []string{activationRelu, activationRelu, activationRelu, activationSigmoid}

	layers := make([]layer, len(dims)-1)
	for i := range layers {
		layers[i] = newLayer(rng, dims[i], dims[i+1], activations[i])
	}

	return &Model{
		InputWidth: inputWidth,
		Layers:     layers,
		Threshold:  threshold,
		Scaler:     NewScaler(inputWidth),
	}
}

func newLayer(rng *rand.Rand, inDim, outDim int, activation string) layer {
	// Xavier-style uniform init keeps early reconstruction errors in a
	// usable range for the sigmoid output layer.
	limit := math.Sqrt(6.0 / float64(inDim+outDim))
	weights := make([][]float64, outDim)
	for o := range weights {
		weights[o] = make([]float64, inDim)
		for i := range weights[o] {
			weights[o][i] = (rng.Float64()*2 - 1) * limit
		}
	}
	return layer{
		Weights:    weights,
		Biases:     make([]float64, outDim),
		Activation: activation,
	}
}

// Ready reports whether the model has been built or loaded.
func (m *Model) Ready() bool {
	return m != nil && len(m.Layers) > 0 && m.Scaler != nil
}

// Score computes one verdict per input vector, order preserved. Each
// vector is padded/truncated to the model width, min-max scaled, run
// through the autoencoder, and flagged when the mean-squared
// reconstruction error exceeds the threshold.
func (m *Model) Score(batch [][]float64) ([]domain.AnomalyVerdict, error) {
	if !m.Ready() {
		return nil, domain.ErrModelNotInitialized
	}

	verdicts := make([]domain.AnomalyVerdict, len(batch))
	for i, features := range batch {
		scaled := m.Scaler.Scale(pad(features, m.InputWidth))
		reconstructed := m.forward(scaled)
		score := meanSquaredError(scaled, reconstructed)
		verdicts[i] = domain.AnomalyVerdict{
			IsAnomalous: score > m.Threshold,
			Score:       score,
		}
	}
	return verdicts, nil
}

// forward runs one scaled vector through every layer.
func (m *Model) forward(input []float64) []float64 {
	out := input
	for _, l := range m.Layers {
		out = l.apply(out)
	}
	return out
}

func (l *layer) apply(input []float64) []float64 {
	out := make([]float64, len(l.Weights))
	for o, row := range l.Weights {
		sum := l.Biases[o]
		for i, w := range row {
			sum += w * input[i]
		}
		out[o] = activate(l.Activation, sum)
	}
	return out
}

func activate(kind string, x float64) float64 {
	switch kind {
	case activationRelu:
		if x < 0 {
			return 0
		}
		return x
	case activationSigmoid:
		return 1.0 / (1.0 + math.Exp(-x))
	default:
		return x
	}
}

func activateDerivative(kind string, activated float64) float64 {
	switch kind {
	case activationRelu:
		if activated > 0 {
			return 1
		}
		return 0
	case activationSigmoid:
		return activated * (1 - activated)
	default:
		return 1
	}
}

func meanSquaredError(want, got []float64) float64 {
	if len(want) == 0 {
		return 0
	}
	var sum float64
	for i := range want {
		d := want[i] - got[i]
		sum += d * d
	}
	return sum / float64(len(want))
}

// pad zero-fills or truncates features to the model's fixed width.
func pad(features []float64, width int) []float64 {
	out := make([]float64, width)
	copy(out, features)
	return out
}

func (m *Model) validate() error {
	if m.InputWidth <= 0 {
		return fmt.Errorf("input width must be positive, got %d", m.InputWidth)
	}
	if len(m.Layers) == 0 {
		return domain.ErrModelNotInitialized
	}
	if m.Scaler == nil || len(m.Scaler.Min) != m.InputWidth {
		return fmt.Errorf("scaler width mismatch")
	}
	in := m.InputWidth
	for i, l := range m.Layers {
		if len(l.Weights) == 0 || len(l.Weights[0]) != in {
			return fmt.Errorf("layer %d expects input width %d", i, in)
		}
		if len(l.Biases) != len(l.Weights) {
			return fmt.Errorf("layer %d bias/weight mismatch", i)
		}
		in = len(l.Weights)
	}
	if in != m.InputWidth {
		return fmt.Errorf("decoder output width %d does not match input width %d", in, m.InputWidth)
	}
	return nil
}
