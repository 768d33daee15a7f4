package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"spenso/internal/domain"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendFraudAlert(ctx context.Context, toEmail string, receipt *domain.Receipt) error {
	args := m.Called(ctx, toEmail, receipt)
	return args.Error(0)
}
