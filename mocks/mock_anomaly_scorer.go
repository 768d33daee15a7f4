package mocks

import (
	"github.com/stretchr/testify/mock"

	"spenso/internal/domain"
)

// MockAnomalyScorer is a mock implementation of port.AnomalyScorer.
type MockAnomalyScorer struct {
	mock.Mock
}

func (m *MockAnomalyScorer) Score(batch [][]float64) ([]domain.AnomalyVerdict, error) {
	args := m.Called(batch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AnomalyVerdict), args.Error(1)
}
