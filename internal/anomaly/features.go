package anomaly

import "spenso/internal/domain"

// Features derives the numeric feature vector for one structured
// receipt: amount and date as epoch seconds. The vector may grow over
// time; Score pads it to the model's fixed width, so adding a feature
// only requires retraining, not a topology change.
func Features(r *domain.StructuredReceipt) []float64 {
	return []float64{
		r.Amount,
		float64(r.Date.Unix()),
	}
}

// ReceiptFeatures derives the same feature vector from a persisted
// receipt, for training on historical records.
func ReceiptFeatures(r *domain.Receipt) []float64 {
	return []float64{
		r.Amount,
		float64(r.Date.Unix()),
	}
}
