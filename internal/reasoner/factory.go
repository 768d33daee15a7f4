package reasoner

import (
	"fmt"

	"spenso/internal/config"
	"spenso/internal/port"
	"spenso/internal/reasoner/gemini"
	"spenso/internal/reasoner/openai"
)

// New creates a TextReasoner for the configured provider.
func New(cfg *config.ReasonerConfig) (port.TextReasoner, error) {
	switch cfg.Provider {
	case "openai":
		return openai.NewReasoner(cfg), nil
	case "gemini":
		return gemini.NewReasoner(cfg), nil
	default:
		return nil, fmt.Errorf("unknown reasoner provider: %q", cfg.Provider)
	}
}
