package anomaly

// Scaler min-max scales each feature to [0, 1]. Amount and a date-epoch
// value differ by orders of magnitude; without scaling one feature
// dominates the reconstruction error, which is a correctness bug rather
// than a modeling choice. The fitted ranges are persisted with the model
// so training and inference always agree.
type Scaler struct {
	Min []float64 `json:"min"`
	Max []float64 `json:"max"`
}

// NewScaler creates an identity scaler of the given width. Fit replaces
// the ranges with observed ones.
func NewScaler(width int) *Scaler {
	s := &Scaler{
		Min: make([]float64, width),
		Max: make([]float64, width),
	}
	for i := range s.Max {
		s.Max[i] = 1
	}
	return s
}

// Fit records the observed per-feature min and max over samples.
// Samples must already be padded to the scaler width.
func (s *Scaler) Fit(samples [][]float64) {
	if len(samples) == 0 {
		return
	}
	for i := range s.Min {
		s.Min[i] = samples[0][i]
		s.Max[i] = samples[0][i]
	}
	for _, sample := range samples {
		for i, v := range sample {
			if v < s.Min[i] {
				s.Min[i] = v
			}
			if v > s.Max[i] {
				s.Max[i] = v
			}
		}
	}
}

// Scale maps features into [0, 1] using the fitted ranges. Values
// outside the training range are clamped so a single wild feature
// cannot blow up the reconstruction error scale.
func (s *Scaler) Scale(features []float64) []float64 {
	out := make([]float64, len(features))
	for i, v := range features {
		span := s.Max[i] - s.Min[i]
		if span == 0 {
			out[i] = 0
			continue
		}
		scaled := (v - s.Min[i]) / span
		if scaled < 0 {
			scaled = 0
		} else if scaled > 1 {
			scaled = 1
		}
		out[i] = scaled
	}
	return out
}
