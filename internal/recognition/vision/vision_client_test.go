package vision_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spenso/internal/config"
	"spenso/internal/recognition/vision"
)

func newTestClient(serverURL string) *vision.Client {
	cfg := &config.RecognitionConfig{
		APIKey:      "test-vision-key",
		Language:    "eng",
		TimeoutSecs: 30,
	}
	return vision.NewClientWithEndpoint(cfg, serverURL)
}

func TestClient_Recognize_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-vision-key", r.URL.Query().Get("key"))

		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		requests := reqBody["requests"].([]interface{})
		require.Len(t, requests, 1)
		first := requests[0].(map[string]interface{})
		image := first["image"].(map[string]interface{})
		assert.NotEmpty(t, image["content"])

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{
			"responses": [{
				"fullTextAnnotation": {
					"text": "WALMART\n$45.67\n03/14/2024",
					"pages": [{"confidence": 0.92}, {"confidence": 0.88}]
				}
			}]
		}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	result, err := c.Recognize(context.Background(), []byte("fake image"), "image/png")

	require.NoError(t, err)
	assert.Equal(t, "WALMART\n$45.67\n03/14/2024", result.Text)
	assert.InDelta(t, 0.90, result.Confidence, 1e-9)
}

func TestClient_Recognize_UnreadableImageIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"responses": [{}]}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	result, err := c.Recognize(context.Background(), []byte("blurry"), "image/jpeg")

	require.NoError(t, err)
	assert.Empty(t, result.Text)
	assert.Equal(t, 0.0, result.Confidence)
}

func TestClient_Recognize_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid key"}}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	_, err := c.Recognize(context.Background(), []byte("img"), "image/png")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}

func TestClient_Recognize_PerImageError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"responses": [{"error": {"code": 3, "message": "bad image data"}}]}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	_, err := c.Recognize(context.Background(), []byte("img"), "image/png")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad image data")
}
