package gemini_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spenso/internal/config"
	"spenso/internal/reasoner"
	"spenso/internal/reasoner/gemini"
)

func newTestReasoner(serverURL string) *gemini.Reasoner {
	cfg := &config.ReasonerConfig{
		Provider:     "gemini",
		APIKey:       "test-gemini-key",
		DefaultModel: "gemini-2.0-flash",
		TimeoutSecs:  30,
	}
	return gemini.NewReasonerWithEndpoint(cfg, serverURL)
}

func successResponse(text string) map[string]interface{} {
	return map[string]interface{}{
		"candidates": []map[string]interface{}{
			{
				"content": map[string]interface{}{
					"role": "model",
					"parts": []map[string]interface{}{
						{"text": text},
					},
				},
				"finishReason": "STOP",
			},
		},
	}
}

func TestReasoner_Structure_Success(t *testing.T) {
	reply := `{"vendor":"WALMART","amount":45.67}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-gemini-key", r.Header.Get("x-goog-api-key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))

		contents := reqBody["contents"].([]interface{})
		require.Len(t, contents, 1)
		msg := contents[0].(map[string]interface{})
		assert.Equal(t, "user", msg["role"])

		parts := msg["parts"].([]interface{})
		require.Len(t, parts, 1)
		textPart := parts[0].(map[string]interface{})
		assert.Equal(t, "structure this receipt", textPart["text"])

		genConfig := reqBody["generationConfig"].(map[string]interface{})
		assert.Equal(t, "application/json", genConfig["responseMimeType"])

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(successResponse(reply))
	}))
	defer server.Close()

	r := newTestReasoner(server.URL)
	got, err := r.Structure(context.Background(), "structure this receipt")

	require.NoError(t, err)
	assert.Equal(t, reply, got)
}

func TestReasoner_Structure_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	}))
	defer server.Close()

	r := newTestReasoner(server.URL)
	_, err := r.Structure(context.Background(), "prompt")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestReasoner_Structure_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	r := newTestReasoner(server.URL)
	_, err := r.Structure(context.Background(), "prompt")

	require.Error(t, err)
	var rateErr *reasoner.RateLimitError
	require.True(t, errors.As(err, &rateErr))
	assert.Equal(t, "gemini", rateErr.Provider)
	assert.Equal(t, float64(30), rateErr.RetryAfter.Seconds())
}

func TestReasoner_Structure_NoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	r := newTestReasoner(server.URL)
	_, err := r.Structure(context.Background(), "prompt")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}
