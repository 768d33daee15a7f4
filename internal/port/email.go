package port

import (
	"context"

	"spenso/internal/domain"
)

// EmailSender defines the contract for outbound notifications.
type EmailSender interface {
	SendFraudAlert(ctx context.Context, toEmail string, receipt *domain.Receipt) error
}
