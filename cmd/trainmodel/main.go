// Command trainmodel fits the anomaly autoencoder on approved
// historical receipts and writes the weights to the configured model
// path. The server loads the file at startup; retraining and restarting
// swaps in the new model.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"spenso/internal/anomaly"
	"spenso/internal/config"
	"spenso/internal/repository/postgres"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	var (
		epochs       = flag.Int("epochs", 200, "training epochs")
		learningRate = flag.Float64("lr", 0.05, "SGD learning rate")
		limit        = flag.Int("limit", 5000, "max receipts to train on")
		seed         = flag.Int64("seed", time.Now().UnixNano(), "weight init seed")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	receiptRepo := postgres.NewReceiptRepo(db)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	receipts, err := receiptRepo.ListForTraining(ctx, *limit)
	if err != nil {
		return fmt.Errorf("loading training receipts: %w", err)
	}
	if len(receipts) == 0 {
		return fmt.Errorf("no approved receipts available for training")
	}

	samples := make([][]float64, len(receipts))
	for i := range receipts {
		samples[i] = anomaly.ReceiptFeatures(&receipts[i])
	}

	model := anomaly.NewModel(anomaly.DefaultInputWidth, cfg.Anomaly.Threshold, *seed)

	log.Printf("training on %d receipts (%d epochs, lr=%.3f)", len(samples), *epochs, *learningRate)
	if err := model.Train(samples, *epochs, *learningRate); err != nil {
		return fmt.Errorf("training: %w", err)
	}

	if err := model.Save(cfg.Anomaly.ModelPath); err != nil {
		return fmt.Errorf("saving model: %w", err)
	}

	log.Printf("model written to %s", cfg.Anomaly.ModelPath)
	return nil
}
