package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"spenso/internal/domain"
	"spenso/internal/port"
)

type receiptRepo struct {
	db *sqlx.DB
}

// NewReceiptRepo creates a new PostgreSQL-backed ReceiptRepository.
func NewReceiptRepo(db *sqlx.DB) port.ReceiptRepository {
	return &receiptRepo{db: db}
}

func (r *receiptRepo) Create(ctx context.Context, receipt *domain.Receipt) error {
	now := time.Now().UTC()
	receipt.CreatedAt = now
	receipt.UpdatedAt = now

	query := `INSERT INTO receipts (
		id, user_id, vendor, amount, date, category,
		items, image_url, status, flags, confidence,
		created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5, $6,
		$7, $8, $9, $10, $11,
		$12, $13
	)`

	_, err := r.db.ExecContext(ctx, query,
		receipt.ID, receipt.UserID, receipt.Vendor, receipt.Amount, receipt.Date, receipt.Category,
		receipt.Items, receipt.ImageURL, receipt.Status, receipt.Flags, receipt.Confidence,
		receipt.CreatedAt, receipt.UpdatedAt)
	if err != nil {
		return fmt.Errorf("receiptRepo.Create: %w", err)
	}
	return nil
}

func (r *receiptRepo) GetByID(ctx context.Context, userID, receiptID uuid.UUID) (*domain.Receipt, error) {
	var receipt domain.Receipt
	err := r.db.GetContext(ctx, &receipt,
		"SELECT * FROM receipts WHERE id = $1 AND user_id = $2", receiptID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrReceiptNotFound
		}
		return nil, fmt.Errorf("receiptRepo.GetByID: %w", err)
	}
	return &receipt, nil
}

func (r *receiptRepo) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Receipt, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM receipts WHERE user_id = $1", userID)
	if err != nil {
		return nil, 0, fmt.Errorf("receiptRepo.ListByUser count: %w", err)
	}

	var receipts []domain.Receipt
	err = r.db.SelectContext(ctx, &receipts,
		`SELECT * FROM receipts WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("receiptRepo.ListByUser: %w", err)
	}
	return receipts, total, nil
}

func (r *receiptRepo) UpdateStatus(ctx context.Context, userID, receiptID uuid.UUID, status domain.ReceiptStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE receipts SET status = $1, updated_at = $2
		 WHERE id = $3 AND user_id = $4`,
		status, time.Now().UTC(), receiptID, userID)
	if err != nil {
		return fmt.Errorf("receiptRepo.UpdateStatus: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrReceiptNotFound
	}
	return nil
}

func (r *receiptRepo) ListForTraining(ctx context.Context, limit int) ([]domain.Receipt, error) {
	var receipts []domain.Receipt
	err := r.db.SelectContext(ctx, &receipts,
		`SELECT * FROM receipts WHERE status = $1
		 ORDER BY created_at DESC LIMIT $2`,
		domain.ReceiptStatusApproved, limit)
	if err != nil {
		return nil, fmt.Errorf("receiptRepo.ListForTraining: %w", err)
	}
	return receipts, nil
}
