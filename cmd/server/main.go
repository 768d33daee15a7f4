package main

import (
	"fmt"
	"log"

	"spenso/internal/anomaly"
	"spenso/internal/config"
	"spenso/internal/email/noop"
	"spenso/internal/email/ses"
	"spenso/internal/handler"
	"spenso/internal/pipeline"
	"spenso/internal/port"
	"spenso/internal/reasoner"
	"spenso/internal/recognition/vision"
	"spenso/internal/repository/postgres"
	"spenso/internal/router"
	"spenso/internal/service"
	s3storage "spenso/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	receiptRepo := postgres.NewReceiptRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize pipeline collaborators
	recognizer := vision.NewClient(&cfg.Recognition)

	textReasoner, err := reasoner.New(&cfg.Reasoner)
	if err != nil {
		return fmt.Errorf("failed to initialize reasoner: %w", err)
	}

	// A missing model file is not fatal at startup; submissions fail with
	// a model-not-initialized error until one is trained and loaded.
	model, err := anomaly.Load(cfg.Anomaly.ModelPath)
	if err != nil {
		log.Printf("anomaly model not loaded from %s: %v; receipt scoring is unavailable", cfg.Anomaly.ModelPath, err)
		model = &anomaly.Model{}
	} else {
		model.Threshold = cfg.Anomaly.Threshold
	}

	emailSender, err := newEmailSender(&cfg.Email)
	if err != nil {
		return fmt.Errorf("failed to initialize email sender: %w", err)
	}

	processor := pipeline.NewProcessor(s3Client, recognizer, textReasoner, model, receiptRepo, cfg.S3.Bucket)

	// Initialize services
	authSvc := service.NewAuthService(cfg.JWT)
	receiptSvc := service.NewReceiptService(processor, receiptRepo, emailSender, &cfg.S3, &cfg.Email)

	// Initialize handlers
	receiptH := handler.NewReceiptHandler(receiptSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(authSvc, receiptH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

func newEmailSender(cfg *config.EmailConfig) (port.EmailSender, error) {
	if cfg.Provider == "ses" {
		return ses.NewSESSender(cfg.Region, cfg.FromAddress, cfg.FromName)
	}
	return noop.NewNoopSender(), nil
}
