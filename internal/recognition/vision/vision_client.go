// Package vision implements the Recognizer contract against the Google
// Cloud Vision images:annotate REST API.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"spenso/internal/config"
	"spenso/internal/domain"
)

const apiURL = "https://vision.googleapis.com/v1/images:annotate"

// Client implements port.Recognizer using DOCUMENT_TEXT_DETECTION.
type Client struct {
	apiKey   string
	language string
	endpoint string
	client   *http.Client
}

// NewClient creates a Vision-backed recognizer from config.
func NewClient(cfg *config.RecognitionConfig) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = apiURL
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		apiKey:   cfg.APIKey,
		language: cfg.Language,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// NewClientWithEndpoint creates a client pointing at a custom API endpoint (for testing).
func NewClientWithEndpoint(cfg *config.RecognitionConfig, endpoint string) *Client {
	c := NewClient(cfg)
	c.endpoint = endpoint
	return c
}

// Recognize runs text detection on one image. An unreadable image yields
// empty text and zero confidence, not an error.
func (c *Client) Recognize(ctx context.Context, imageBytes []byte, contentType string) (*domain.RecognitionResult, error) {
	reqBody := map[string]interface{}{
		"requests": []map[string]interface{}{
			{
				"image": map[string]interface{}{
					"content": base64.StdEncoding.EncodeToString(imageBytes),
				},
				"features": []map[string]interface{}{
					{"type": "DOCUMENT_TEXT_DETECTION"},
				},
				"imageContext": map[string]interface{}{
					"languageHints": []string{c.language},
				},
			},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"?key="+c.apiKey, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling vision API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vision API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return parseResponse(respBody)
}

// apiResponse models the Vision annotate response.
type apiResponse struct {
	Responses []struct {
		FullTextAnnotation *struct {
			Text  string `json:"text"`
			Pages []struct {
				Confidence float64 `json:"confidence"`
			} `json:"pages"`
		} `json:"fullTextAnnotation"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	} `json:"responses"`
}

func parseResponse(body []byte) (*domain.RecognitionResult, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}
	if len(resp.Responses) == 0 {
		return nil, fmt.Errorf("empty response from API")
	}

	r := resp.Responses[0]
	if r.Error != nil {
		return nil, fmt.Errorf("vision API error %d: %s", r.Error.Code, r.Error.Message)
	}

	// No annotation at all means nothing was recognizable in the image.
	if r.FullTextAnnotation == nil {
		return &domain.RecognitionResult{Text: "", Confidence: 0}, nil
	}

	confidence := 0.0
	if n := len(r.FullTextAnnotation.Pages); n > 0 {
		for _, p := range r.FullTextAnnotation.Pages {
			confidence += p.Confidence
		}
		confidence /= float64(n)
	}
	if confidence < 0 {
		confidence = 0
	} else if confidence > 1 {
		confidence = 1
	}

	return &domain.RecognitionResult{
		Text:       r.FullTextAnnotation.Text,
		Confidence: confidence,
	}, nil
}
