package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"spenso/internal/domain"
	"spenso/internal/pipeline"
)

// MockProcessor is a mock implementation of service.Processor.
type MockProcessor struct {
	mock.Mock
}

func (m *MockProcessor) Process(ctx context.Context, input pipeline.ProcessInput) (*domain.Receipt, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}
