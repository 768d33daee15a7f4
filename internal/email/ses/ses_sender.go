package ses

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"spenso/internal/domain"
	"spenso/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
	}, nil
}

func (s *sesSender) SendFraudAlert(ctx context.Context, toEmail string, receipt *domain.Receipt) error {
	subject := fmt.Sprintf("Anomalous expense flagged: %s, $%.2f", receipt.Vendor, receipt.Amount)
	htmlBody := buildFraudAlertHTML(receipt)
	textBody := fmt.Sprintf(
		"An expense was flagged for review.\n\nVendor: %s\nAmount: $%.2f\nDate: %s\nCategory: %s\nReceipt ID: %s\n\nPlease review it in the expense dashboard.",
		receipt.Vendor, receipt.Amount, receipt.Date.Format("2006-01-02"), receipt.Category, receipt.ID)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildFraudAlertHTML(receipt *domain.Receipt) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Anomalous expense flagged</h2>
  <p>A submitted receipt was flagged for review:</p>
  <table style="border-collapse: collapse; width: 100%%;">
    <tr><td style="padding: 6px 12px; color: #666;">Vendor</td><td style="padding: 6px 12px;">%s</td></tr>
    <tr><td style="padding: 6px 12px; color: #666;">Amount</td><td style="padding: 6px 12px;">$%.2f</td></tr>
    <tr><td style="padding: 6px 12px; color: #666;">Date</td><td style="padding: 6px 12px;">%s</td></tr>
    <tr><td style="padding: 6px 12px; color: #666;">Category</td><td style="padding: 6px 12px;">%s</td></tr>
    <tr><td style="padding: 6px 12px; color: #666;">Receipt ID</td><td style="padding: 6px 12px;">%s</td></tr>
  </table>
  <p>Please review it in the expense dashboard.</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">Spenso - Expense Processing</p>
</body>
</html>`, receipt.Vendor, receipt.Amount, receipt.Date.Format("2006-01-02"), receipt.Category, receipt.ID)
}
