package anomaly

import (
	"encoding/json"
	"fmt"
	"os"
)

// Save writes the model weights, scaler and threshold as JSON.
func (m *Model) Save(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling model: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing model file: %w", err)
	}
	return nil
}

// Load reads a model previously written by Save and validates its
// layer dimensions before handing it out.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model file: %w", err)
	}
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshaling model: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("invalid model file %s: %w", path, err)
	}
	return &m, nil
}
