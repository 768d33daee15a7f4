package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"spenso/internal/config"
	"spenso/internal/reasoner/reasonererr"
)

const apiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// Reasoner implements port.TextReasoner using Google's Gemini API.
type Reasoner struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewReasoner creates a Gemini-based text reasoner.
func NewReasoner(cfg *config.ReasonerConfig) *Reasoner {
	return newReasoner(cfg, "")
}

// NewReasonerWithEndpoint creates a reasoner pointing at a custom API endpoint (for testing).
func NewReasonerWithEndpoint(cfg *config.ReasonerConfig, endpoint string) *Reasoner {
	return newReasoner(cfg, endpoint)
}

func newReasoner(cfg *config.ReasonerConfig, endpoint string) *Reasoner {
	model := cfg.DefaultModel
	if model == "" {
		model = "gemini-2.0-flash"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	if endpoint == "" {
		endpoint = fmt.Sprintf("%s/%s:generateContent", apiBaseURL, model)
	}
	return &Reasoner{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (r *Reasoner) Structure(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"role": "user",
				"parts": []map[string]interface{}{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
			"maxOutputTokens":  8192,
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", r.apiKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling gemini API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode, string(respBody))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := reasonererr.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return "", reasonererr.NewRateLimitError("gemini", baseErr, retryAfter)
		}
		return "", baseErr
	}

	return parseResponse(respBody)
}

// geminiResponse models the Gemini API response.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

func parseResponse(body []byte) (string, error) {
	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshaling response: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("empty response from API: no candidates")
	}
	if len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from API: no parts")
	}
	if resp.Candidates[0].FinishReason == "MAX_TOKENS" {
		return "", fmt.Errorf("output truncated: response exceeded output token limit")
	}

	return resp.Candidates[0].Content.Parts[0].Text, nil
}
