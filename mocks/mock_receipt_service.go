package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/xuri/excelize/v2"

	"spenso/internal/domain"
	"spenso/internal/service"
)

// MockReceiptService is a mock implementation of service.ReceiptService.
type MockReceiptService struct {
	mock.Mock
}

func (m *MockReceiptService) Submit(ctx context.Context, input service.ReceiptUploadInput) (*domain.Receipt, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}

func (m *MockReceiptService) GetByID(ctx context.Context, userID, receiptID uuid.UUID) (*domain.Receipt, error) {
	args := m.Called(ctx, userID, receiptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}

func (m *MockReceiptService) List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Receipt, int, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Receipt), args.Int(1), args.Error(2)
}

func (m *MockReceiptService) UpdateStatus(ctx context.Context, userID, receiptID uuid.UUID, status domain.ReceiptStatus) (*domain.Receipt, error) {
	args := m.Called(ctx, userID, receiptID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}

func (m *MockReceiptService) Export(ctx context.Context, userID uuid.UUID) (*excelize.File, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*excelize.File), args.Error(1)
}
