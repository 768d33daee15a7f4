package noop

import (
	"context"
	"log"

	"spenso/internal/domain"
	"spenso/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs alerts to stdout.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendFraudAlert(_ context.Context, toEmail string, receipt *domain.Receipt) error {
	log.Printf("[NOOP EMAIL] Fraud alert to %s: receipt %s (%s, $%.2f)",
		toEmail, receipt.ID, receipt.Vendor, receipt.Amount)
	return nil
}
