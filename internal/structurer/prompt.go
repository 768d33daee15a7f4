package structurer

import (
	"fmt"

	"spenso/internal/domain"
)

// BuildPrompt returns the structuring prompt for one receipt. The draft
// fields give the reasoner the heuristic head start; the raw text lets
// it recover anything the heuristics missed.
func BuildPrompt(draft domain.DraftFields, rawText string) string {
	return fmt.Sprintf(`You are an AI assistant that structures expense receipt data and validates compliance with company expense policies.

Structure the following receipt and identify any potential policy violations.

Heuristic draft extraction (may be partially unknown):
%s

Raw recognized text:
%s

Return ONLY valid JSON with no markdown formatting, no code fences, no explanation. The object must follow this schema exactly:
{
  "vendor": "",
  "amount": 0,
  "date": "YYYY-MM-DD",
  "category": "",
  "items": [
    {"description": "", "amount": 0}
  ],
  "policy_flags": []
}

Rules:
- "category" is one of: Groceries, Dining, Travel, Office Supplies, Entertainment, Utilities, Other.
- "items" lists every line item you can identify; use an empty array if none are legible.
- "policy_flags" lists short human-readable descriptions of company policy violations (e.g. alcohol purchases, amounts over approval limits, weekend entertainment). Use an empty array when nothing violates policy.
- Leave "vendor" empty and "amount" 0 only when the receipt truly does not show them.`, summarizeDraft(draft), rawText)
}

// summarizeDraft renders draft fields for the prompt without inventing
// values for unknown ones.
func summarizeDraft(d domain.DraftFields) string {
	vendor, amount, date := "unknown", "unknown", "unknown"
	if d.Vendor != nil {
		vendor = *d.Vendor
	}
	if d.Amount != nil {
		amount = fmt.Sprintf("%.2f", *d.Amount)
	}
	if d.Date != nil {
		date = d.Date.Format("2006-01-02")
	}
	return fmt.Sprintf("vendor: %s\namount: %s\ndate: %s", vendor, amount, date)
}
