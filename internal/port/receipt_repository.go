package port

import (
	"context"

	"github.com/google/uuid"

	"spenso/internal/domain"
)

// ReceiptRepository defines the contract for receipt persistence.
// All query methods include userID to scope records to their owner.
type ReceiptRepository interface {
	Create(ctx context.Context, receipt *domain.Receipt) error
	GetByID(ctx context.Context, userID, receiptID uuid.UUID) (*domain.Receipt, error)
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Receipt, int, error)
	UpdateStatus(ctx context.Context, userID, receiptID uuid.UUID, status domain.ReceiptStatus) error
	// ListForTraining returns approved historical receipts across all
	// users for fitting the anomaly model.
	ListForTraining(ctx context.Context, limit int) ([]domain.Receipt, error)
}
