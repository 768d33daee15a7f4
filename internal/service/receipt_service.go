package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"spenso/internal/config"
	"spenso/internal/domain"
	"spenso/internal/export"
	"spenso/internal/pipeline"
	"spenso/internal/port"
)

// exportLimit caps the number of receipts rendered into one report.
const exportLimit = 10000

// ReceiptUploadInput is the DTO for receipt submission requests.
type ReceiptUploadInput struct {
	UserID uuid.UUID
	File   multipart.File
	Header *multipart.FileHeader
}

// Processor runs the receipt pipeline. Satisfied by *pipeline.Processor.
type Processor interface {
	Process(ctx context.Context, input pipeline.ProcessInput) (*domain.Receipt, error)
}

// ReceiptService defines the receipt management contract.
type ReceiptService interface {
	Submit(ctx context.Context, input ReceiptUploadInput) (*domain.Receipt, error)
	GetByID(ctx context.Context, userID, receiptID uuid.UUID) (*domain.Receipt, error)
	List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Receipt, int, error)
	UpdateStatus(ctx context.Context, userID, receiptID uuid.UUID, status domain.ReceiptStatus) (*domain.Receipt, error)
	Export(ctx context.Context, userID uuid.UUID) (*excelize.File, error)
}

type receiptService struct {
	processor   Processor
	receiptRepo port.ReceiptRepository
	emailSender port.EmailSender
	s3Cfg       *config.S3Config
	emailCfg    *config.EmailConfig
}

// NewReceiptService creates a new ReceiptService implementation.
func NewReceiptService(
	processor Processor,
	receiptRepo port.ReceiptRepository,
	emailSender port.EmailSender,
	s3Cfg *config.S3Config,
	emailCfg *config.EmailConfig,
) ReceiptService {
	return &receiptService{
		processor:   processor,
		receiptRepo: receiptRepo,
		emailSender: emailSender,
		s3Cfg:       s3Cfg,
		emailCfg:    emailCfg,
	}
}

func (s *receiptService) Submit(ctx context.Context, input ReceiptUploadInput) (*domain.Receipt, error) {
	// Validate file size before reading the body
	maxBytes := s.s3Cfg.MaxFileSizeMB * 1024 * 1024
	if input.Header.Size > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	imageBytes, err := io.ReadAll(input.File)
	if err != nil {
		return nil, fmt.Errorf("reading uploaded file: %w", err)
	}

	// Magic-byte content type detection; the client-declared type is
	// not trusted
	detectedType := http.DetectContentType(imageBytes)
	imageType, ok := domain.AllowedContentTypes[detectedType]
	if !ok {
		return nil, domain.ErrUnsupportedFileType
	}
	contentType := domain.AllowedImageTypes[imageType]

	log.Printf("receiptService.Submit: processing receipt %s (%s, %d bytes) for user %s",
		input.Header.Filename, contentType, len(imageBytes), input.UserID)

	receipt, err := s.processor.Process(ctx, pipeline.ProcessInput{
		ImageBytes:  imageBytes,
		FileName:    input.Header.Filename,
		ContentType: contentType,
		UserID:      input.UserID,
	})
	if err != nil {
		log.Printf("receiptService.Submit: pipeline failed for user %s: %v", input.UserID, err)
		return nil, err
	}

	s.notifyIfFlagged(ctx, receipt)
	return receipt, nil
}

// notifyIfFlagged sends a fraud alert for flagged receipts. Alerting is
// best-effort: a send failure never fails the submission that triggered it.
func (s *receiptService) notifyIfFlagged(ctx context.Context, receipt *domain.Receipt) {
	if s.emailCfg.AlertTo == "" || !hasFraudFlag(receipt) {
		return
	}
	if err := s.emailSender.SendFraudAlert(ctx, s.emailCfg.AlertTo, receipt); err != nil {
		log.Printf("receiptService.notifyIfFlagged: sending alert for receipt %s: %v", receipt.ID, err)
	}
}

func hasFraudFlag(receipt *domain.Receipt) bool {
	for _, flag := range receipt.Flags {
		if flag == domain.FraudFlag {
			return true
		}
	}
	return false
}

func (s *receiptService) GetByID(ctx context.Context, userID, receiptID uuid.UUID) (*domain.Receipt, error) {
	return s.receiptRepo.GetByID(ctx, userID, receiptID)
}

func (s *receiptService) List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Receipt, int, error) {
	return s.receiptRepo.ListByUser(ctx, userID, offset, limit)
}

func (s *receiptService) UpdateStatus(ctx context.Context, userID, receiptID uuid.UUID, status domain.ReceiptStatus) (*domain.Receipt, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	if err := s.receiptRepo.UpdateStatus(ctx, userID, receiptID, status); err != nil {
		return nil, err
	}
	return s.receiptRepo.GetByID(ctx, userID, receiptID)
}

func (s *receiptService) Export(ctx context.Context, userID uuid.UUID) (*excelize.File, error) {
	receipts, _, err := s.receiptRepo.ListByUser(ctx, userID, 0, exportLimit)
	if err != nil {
		return nil, err
	}
	return export.BuildWorkbook(receipts)
}
