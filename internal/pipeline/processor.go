// Package pipeline sequences the receipt processing stages: image
// upload, text recognition, heuristic extraction, LLM structuring,
// anomaly scoring and record persistence. Stages run strictly in order;
// any fatal failure abandons the invocation with no partial Receipt.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"spenso/internal/anomaly"
	"spenso/internal/domain"
	"spenso/internal/extract"
	"spenso/internal/port"
	"spenso/internal/structurer"
)

// ProcessInput carries one receipt image through the pipeline.
type ProcessInput struct {
	ImageBytes  []byte
	FileName    string
	ContentType string
	UserID      uuid.UUID
}

// Processor orchestrates one receipt at a time. Concurrent Process
// calls for different receipts share nothing but the scorer's
// read-only model.
type Processor struct {
	storage     port.ObjectStorage
	recognizer  port.Recognizer
	reasoner    port.TextReasoner
	scorer      port.AnomalyScorer
	receiptRepo port.ReceiptRepository
	bucket      string
}

// NewProcessor creates a Processor wired to its collaborators.
func NewProcessor(
	storage port.ObjectStorage,
	recognizer port.Recognizer,
	reasoner port.TextReasoner,
	scorer port.AnomalyScorer,
	receiptRepo port.ReceiptRepository,
	bucket string,
) *Processor {
	return &Processor{
		storage:     storage,
		recognizer:  recognizer,
		reasoner:    reasoner,
		scorer:      scorer,
		receiptRepo: receiptRepo,
		bucket:      bucket,
	}
}

// Process runs the full pipeline for one image and returns the
// persisted Receipt. Failures at any stage are fatal: nothing is
// retried and no partial record is written. An image uploaded before a
// later stage failed is left in place for a reconciliation sweep,
// since safe cleanup of a partially-processed upload is not guaranteed.
func (p *Processor) Process(ctx context.Context, input ProcessInput) (*domain.Receipt, error) {
	key := fmt.Sprintf("receipts/%s/%d-%s", input.UserID, time.Now().UnixNano(), input.FileName)

	uploaded, err := p.storage.Upload(ctx, port.UploadInput{
		Bucket:      p.bucket,
		Key:         key,
		Body:        bytes.NewReader(input.ImageBytes),
		ContentType: input.ContentType,
		Size:        int64(len(input.ImageBytes)),
	})
	if err != nil {
		return nil, fatal(domain.ErrStorageUploadFailed, err)
	}

	recognized, err := p.recognizer.Recognize(ctx, input.ImageBytes, input.ContentType)
	if err != nil {
		return nil, fatal(domain.ErrRecognitionFailed, err)
	}

	// Extraction is best-effort and never fails; unknown fields stay nil
	// for the structurer to resolve.
	draft := extract.Extract(recognized.Text)

	structured, err := structurer.Structure(ctx, draft, recognized.Text, p.reasoner)
	if err != nil {
		// Malformed-response and transport errors already carry their
		// kind; only the deadline case needs remapping.
		return nil, timeoutOr(err)
	}

	verdicts, err := p.scorer.Score([][]float64{anomaly.Features(&structured)})
	if err != nil {
		return nil, err
	}

	flags := append(domain.Flags{}, structured.PolicyFlags...)
	if verdicts[0].IsAnomalous {
		flags = append(flags, domain.FraudFlag)
		log.Printf("pipeline: receipt for user %s flagged as anomalous (score=%.4f)",
			input.UserID, verdicts[0].Score)
	}

	receipt := &domain.Receipt{
		ID:         uuid.New(),
		UserID:     input.UserID,
		Vendor:     structured.Vendor,
		Amount:     structured.Amount,
		Date:       structured.Date,
		Category:   structured.Category,
		Items:      domain.LineItems(structured.Items),
		ImageURL:   uploaded.Location,
		Status:     domain.ReceiptStatusPending,
		Flags:      flags,
		Confidence: recognized.Confidence,
	}

	if err := p.receiptRepo.Create(ctx, receipt); err != nil {
		return nil, fatal(domain.ErrPersistenceFailed, err)
	}

	return receipt, nil
}

// fatal tags an underlying failure with its pipeline error kind,
// preferring the timeout kind when the caller's deadline expired.
func fatal(kind error, err error) error {
	if isDeadline(err) {
		kind = domain.ErrTimeout
	}
	return fmt.Errorf("%w: %v", kind, err)
}

func timeoutOr(err error) error {
	if isDeadline(err) {
		return fmt.Errorf("%w: %v", domain.ErrTimeout, err)
	}
	return err
}

func isDeadline(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
