package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockTextReasoner is a mock implementation of port.TextReasoner.
type MockTextReasoner struct {
	mock.Mock
}

func (m *MockTextReasoner) Structure(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}
