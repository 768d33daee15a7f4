// Package extract derives best-guess receipt fields from raw recognized
// text. Everything here is heuristic and best-effort: missing data
// degrades to nil fields, never to an error, since partial information
// is more valuable than a hard failure for noisy OCR output.
package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"spenso/internal/domain"
)

var (
	amountPattern = regexp.MustCompile(`\$?\d+\.\d{2}`)
	datePattern   = regexp.MustCompile(`\d{1,2}[-/]\d{1,2}[-/]\d{2,4}`)
)

// Extract parses vendor, amount and date out of recognized receipt text.
// Pure and deterministic; absent patterns yield nil fields.
func Extract(text string) domain.DraftFields {
	lines := nonEmptyLines(text)
	return domain.DraftFields{
		Vendor: extractVendor(lines),
		Amount: extractAmount(text),
		Date:   extractDate(text),
	}
}

// extractAmount returns the numerically largest currency-like value in
// the text. Receipts list many line items plus a total, and the grand
// total is almost always the largest printed amount.
func extractAmount(text string) *float64 {
	matches := amountPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	var max float64
	found := false
	for _, m := range matches {
		val, err := strconv.ParseFloat(strings.TrimPrefix(m, "$"), 64)
		if err != nil {
			continue
		}
		if !found || val > max {
			max = val
			found = true
		}
	}
	if !found {
		return nil
	}
	return &max
}

// extractDate parses the first date-like substring in document order.
// Invalid calendar dates (e.g. 13/45/9999) yield nil, never a fabricated
// value.
func extractDate(text string) *time.Time {
	match := datePattern.FindString(text)
	if match == "" {
		return nil
	}
	if t, ok := parseCalendarDate(match); ok {
		return &t
	}
	return nil
}

// parseCalendarDate tries month-first order, then day-first as a
// fallback for dates like 25/12/2024.
func parseCalendarDate(s string) (time.Time, bool) {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '/' || r == '-' })
	if len(parts) != 3 {
		return time.Time{}, false
	}

	a, errA := strconv.Atoi(parts[0])
	b, errB := strconv.Atoi(parts[1])
	y, errY := strconv.Atoi(parts[2])
	if errA != nil || errB != nil || errY != nil {
		return time.Time{}, false
	}
	if len(parts[2]) == 2 {
		y += 2000
	}

	if t, ok := makeDate(y, a, b); ok {
		return t, true
	}
	return makeDate(y, b, a)
}

// makeDate builds a date and rejects values time.Date would silently
// normalize (e.g. month 13 rolling into the next year).
func makeDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// extractVendor inspects the first three lines for an all-caps line
// longer than 3 characters; vendor names and logos are usually printed
// in capitals near the top of a receipt. Falls back to the first
// non-empty line.
func extractVendor(lines []string) *string {
	limit := len(lines)
	if limit > 3 {
		limit = 3
	}
	for _, line := range lines[:limit] {
		if len(line) > 3 && line == strings.ToUpper(line) {
			return &line
		}
	}
	if len(lines) > 0 {
		return &lines[0]
	}
	return nil
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
