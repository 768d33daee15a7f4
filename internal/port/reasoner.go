package port

import "context"

// TextReasoner abstracts the external text-reasoning service used to
// structure receipt data. The returned string must be parseable as the
// structured receipt's JSON field set; parsing and failure policy live
// in the structurer, not here.
type TextReasoner interface {
	Structure(ctx context.Context, prompt string) (string, error)
}
