// Package structurer turns draft fields plus raw text into a fully
// structured, policy-annotated receipt by way of the text-reasoning
// collaborator. Unlike the extraction heuristics, a reply that cannot
// be parsed is a hard failure: this step fills correctness-relevant
// fields and must never silently substitute defaults for a garbled
// response.
package structurer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"spenso/internal/domain"
	"spenso/internal/port"
)

// reply models the JSON field set the reasoner must return.
type reply struct {
	Vendor      string            `json:"vendor"`
	Amount      float64           `json:"amount"`
	Date        string            `json:"date"`
	Category    string            `json:"category"`
	Items       []domain.LineItem `json:"items"`
	PolicyFlags []string          `json:"policy_flags"`
}

// Structure sends the draft and raw text to the reasoner and parses the
// response into a StructuredReceipt. Transport errors propagate as-is;
// an unparseable reply fails with ErrMalformedStructuringResponse.
// Defaults for still-missing fields are applied only after a successful
// parse.
func Structure(ctx context.Context, draft domain.DraftFields, rawText string, reasoner port.TextReasoner) (domain.StructuredReceipt, error) {
	prompt := BuildPrompt(draft, rawText)

	raw, err := reasoner.Structure(ctx, prompt)
	if err != nil {
		return domain.StructuredReceipt{}, fmt.Errorf("calling reasoner: %w", err)
	}

	var r reply
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return domain.StructuredReceipt{}, fmt.Errorf("%w: %v (raw: %s)",
			domain.ErrMalformedStructuringResponse, err, truncate(raw, 200))
	}
	if r.Amount < 0 {
		return domain.StructuredReceipt{}, fmt.Errorf("%w: negative amount %.2f",
			domain.ErrMalformedStructuringResponse, r.Amount)
	}

	date, err := parseDate(r.Date)
	if err != nil {
		return domain.StructuredReceipt{}, fmt.Errorf("%w: %v",
			domain.ErrMalformedStructuringResponse, err)
	}

	return finish(r, date, draft), nil
}

// finish normalizes the parsed reply, filling fields the reasoner left
// unknown from the draft, then from explicit defaults.
func finish(r reply, date time.Time, draft domain.DraftFields) domain.StructuredReceipt {
	out := domain.StructuredReceipt{
		Vendor:      r.Vendor,
		Amount:      r.Amount,
		Date:        date,
		Category:    r.Category,
		Items:       r.Items,
		PolicyFlags: r.PolicyFlags,
	}

	if out.Vendor == "" {
		if draft.Vendor != nil {
			out.Vendor = *draft.Vendor
		} else {
			out.Vendor = "Unknown"
		}
	}
	if out.Amount == 0 && draft.Amount != nil {
		out.Amount = *draft.Amount
	}
	if out.Date.IsZero() {
		if draft.Date != nil {
			out.Date = *draft.Date
		} else {
			out.Date = time.Now().UTC()
		}
	}
	if out.Category == "" {
		out.Category = "Other"
	}
	if out.Items == nil {
		out.Items = []domain.LineItem{}
	}
	if out.PolicyFlags == nil {
		out.PolicyFlags = []string{}
	}
	return out
}

// parseDate accepts the schema's YYYY-MM-DD plus RFC 3339 for reasoners
// that return full timestamps. An empty date is not an error; the
// finishing step defaults it.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
