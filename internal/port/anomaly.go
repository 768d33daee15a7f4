package port

import "spenso/internal/domain"

// AnomalyScorer flags feature vectors whose reconstruction error exceeds
// the configured threshold. Verdicts are order-preserving relative to the
// input batch. Implementations must be safe for concurrent use once built.
type AnomalyScorer interface {
	Score(batch [][]float64) ([]domain.AnomalyVerdict, error)
}
