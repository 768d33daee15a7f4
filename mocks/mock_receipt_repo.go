package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"spenso/internal/domain"
)

// MockReceiptRepo is a mock implementation of port.ReceiptRepository.
type MockReceiptRepo struct {
	mock.Mock
}

func (m *MockReceiptRepo) Create(ctx context.Context, receipt *domain.Receipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *MockReceiptRepo) GetByID(ctx context.Context, userID, receiptID uuid.UUID) (*domain.Receipt, error) {
	args := m.Called(ctx, userID, receiptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}

func (m *MockReceiptRepo) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Receipt, int, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Receipt), args.Int(1), args.Error(2)
}

func (m *MockReceiptRepo) UpdateStatus(ctx context.Context, userID, receiptID uuid.UUID, status domain.ReceiptStatus) error {
	args := m.Called(ctx, userID, receiptID, status)
	return args.Error(0)
}

func (m *MockReceiptRepo) ListForTraining(ctx context.Context, limit int) ([]domain.Receipt, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Receipt), args.Error(1)
}
