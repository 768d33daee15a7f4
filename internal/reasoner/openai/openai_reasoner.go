package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"

	"spenso/internal/config"
)

const systemPrompt = "You are an AI assistant that helps structure expense receipt data and validate compliance with company policies. Always reply with raw JSON only."

// Reasoner implements port.TextReasoner using the OpenAI Responses API.
type Reasoner struct {
	client *openai.Client
	model  shared.ResponsesModel
}

// NewReasoner creates an OpenAI-backed text reasoner from a provider config.
func NewReasoner(cfg *config.ReasonerConfig) *Reasoner {
	model := cfg.DefaultModel
	if model == "" {
		model = "gpt-4o"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(timeout),
	)
	return &Reasoner{client: &client, model: shared.ResponsesModel(model)}
}

// Structure sends the structuring prompt and returns the model's raw
// text reply. Parsing and failure policy belong to the structurer.
func (r *Reasoner) Structure(ctx context.Context, prompt string) (string, error) {
	resp, err := r.client.Responses.New(ctx, responses.ResponseNewParams{
		Model: r.model,
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam{
				responses.ResponseInputItemParamOfMessage(systemPrompt, responses.EasyInputMessageRoleSystem),
				responses.ResponseInputItemParamOfMessage(prompt, responses.EasyInputMessageRoleUser),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("calling openai API: %w", err)
	}

	output := strings.TrimSpace(resp.OutputText())
	if output == "" {
		return "", errors.New("empty response from API")
	}
	return output, nil
}
