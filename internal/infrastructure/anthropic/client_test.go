package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/facility-locator/internal/config"
)

func TestClient_Complete(t *testing.T) {
	logger := zap.NewNop()

	t.Run("returns text content", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "test-model", body["model"])
			assert.Equal(t, float64(0), body["temperature"])

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"id": "msg_01",
				"type": "message",
				"role": "assistant",
				"model": "test-model",
				"content": [{"type": "text", "text": "{\"mart_name\": \"롯데마트 서울역\"}"}],
				"stop_reason": "end_turn",
				"usage": {"input_tokens": 10, "output_tokens": 12}
			}`))
		}))
		defer server.Close()

		cfg := &config.AIConfig{
			APIKey:    "test-key",
			BaseURL:   server.URL,
			Model:     "test-model",
			MaxTokens: 256,
		}

		c := NewClient(cfg, logger)
		got, err := c.Complete(context.Background(), "system prompt", "롯데마트 서울역점에서 가장 가까운 소방서")
		require.NoError(t, err)
		assert.Equal(t, `{"mart_name": "롯데마트 서울역"}`, got)
	})

	t.Run("service failure surfaces as error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"type": "error", "error": {"type": "api_error", "message": "overloaded"}}`))
		}))
		defer server.Close()

		cfg := &config.AIConfig{
			APIKey:    "test-key",
			BaseURL:   server.URL,
			Model:     "test-model",
			MaxTokens: 256,
		}

		c := NewClient(cfg, logger)
		_, err := c.Complete(context.Background(), "system prompt", "query")
		assert.Error(t, err)
	})
}
