// Package reasoner selects and shares plumbing for text-reasoning
// service implementations.
package reasoner

import (
	"spenso/internal/reasoner/reasonererr"
)

// RateLimitError indicates a reasoning provider returned HTTP 429.
type RateLimitError = reasonererr.RateLimitError

// NewRateLimitError creates a RateLimitError. If retryAfterSecs is 0, defaults to 60s.
func NewRateLimitError(provider string, err error, retryAfterSecs int) *RateLimitError {
	return reasonererr.NewRateLimitError(provider, err, retryAfterSecs)
}

// ParseRetryAfterHeader parses a Retry-After header value into seconds.
// Returns 0 if the value is empty or not a valid integer.
func ParseRetryAfterHeader(val string) int {
	return reasonererr.ParseRetryAfterHeader(val)
}
