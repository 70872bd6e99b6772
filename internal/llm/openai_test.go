package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenAI(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := newOpenAIClient(Config{APIKey: "test-key", BaseURL: server.URL}.withDefaults())
	require.NoError(t, err)
	return client
}

func TestOpenAIClient_Generate(t *testing.T) {
	var received map[string]any

	client := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","choices":[{"index":0,"message":{"role":"assistant","content":"  Spending is steady.  "}}]}`))
	})

	text, err := client.Generate(context.Background(), "Describe spending")
	require.NoError(t, err)
	assert.Equal(t, "Spending is steady.", text)

	assert.Equal(t, defaultOpenAIModel, received["model"])
	messages, ok := received["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	assert.Equal(t, "Describe spending", messages[1].(map[string]any)["content"])
}

func TestOpenAIClient_SendsZeroTemperature(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	t.Cleanup(server.Close)

	client, err := newOpenAIClient(Config{APIKey: "k", BaseURL: server.URL, Temperature: Float(0)}.withDefaults())
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), "p")
	require.NoError(t, err)
	temperature, ok := received["temperature"]
	require.True(t, ok)
	assert.Equal(t, 0.0, temperature)
}

func TestOpenAIClient_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		errMsg string
	}{
		{"api error", http.StatusTooManyRequests, `{"error":"slow down"}`, "status 429"},
		{"bad json", http.StatusOK, `not json`, "failed to parse response"},
		{"no choices", http.StatusOK, `{"choices":[]}`, "no completion choices"},
		{"empty content", http.StatusOK, `{"choices":[{"message":{"content":"   "}}]}`, ErrEmptyResponse.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestOpenAI(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.Generate(context.Background(), "prompt")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestOpenAIClient_ContextCanceled(t *testing.T) {
	client := newTestOpenAI(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Generate(ctx, "prompt")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
