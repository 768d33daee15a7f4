package domain

import (
	"time"

	"github.com/google/uuid"
)

// RecognitionResult is the raw output of the recognition collaborator.
// Immutable once produced; empty Text is valid for unreadable images.
type RecognitionResult struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"` // in [0, 1]
}

// DraftFields is the unvalidated, possibly-partial extraction output.
// Nil fields mean the heuristic found nothing; extraction never errors.
type DraftFields struct {
	Vendor *string    `json:"vendor"`
	Amount *float64   `json:"amount"`
	Date   *time.Time `json:"date"`
}

// LineItem is a single itemized entry on a receipt.
type LineItem struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// StructuredReceipt is a fully validated, policy-annotated expense record
// prior to persistence metadata. Unknown fields carry explicit defaults.
type StructuredReceipt struct {
	Vendor      string     `json:"vendor"`
	Amount      float64    `json:"amount"`
	Date        time.Time  `json:"date"`
	Category    string     `json:"category"`
	Items       []LineItem `json:"items"`
	PolicyFlags []string   `json:"policy_flags"`
}

// AnomalyVerdict is the scorer's decision for one feature vector.
type AnomalyVerdict struct {
	IsAnomalous bool    `json:"is_anomalous"`
	Score       float64 `json:"score"` // mean-squared reconstruction error, >= 0
}

// Receipt is the persisted expense record produced by one pipeline run.
// The pipeline never mutates a Receipt after creation; only the review
// workflow updates Status.
type Receipt struct {
	ID         uuid.UUID     `db:"id" json:"id"`
	UserID     uuid.UUID     `db:"user_id" json:"user_id"`
	Vendor     string        `db:"vendor" json:"vendor"`
	Amount     float64       `db:"amount" json:"amount"`
	Date       time.Time     `db:"date" json:"date"`
	Category   string        `db:"category" json:"category"`
	Items      LineItems     `db:"items" json:"items"`
	ImageURL   string        `db:"image_url" json:"image_url"`
	Status     ReceiptStatus `db:"status" json:"status"`
	Flags      Flags         `db:"flags" json:"flags"`
	Confidence float64       `db:"confidence" json:"confidence"`
	CreatedAt  time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time     `db:"updated_at" json:"updated_at"`
}
