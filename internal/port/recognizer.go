package port

import (
	"context"

	"spenso/internal/domain"
)

// Recognizer abstracts the external text recognition service.
// An empty Text in the result is not an error by itself; unreadable
// images simply yield no recognizable text.
type Recognizer interface {
	Recognize(ctx context.Context, imageBytes []byte, contentType string) (*domain.RecognitionResult, error)
}
