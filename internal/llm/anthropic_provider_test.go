package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const messageJSON = `{
  "id": "msg_1",
  "type": "message",
  "role": "assistant",
  "model": "claude-3-5-haiku-latest",
  "content": [{"type": "text", "text": "Salt hung in the air."}],
  "stop_reason": "end_turn",
  "stop_sequence": null,
  "usage": {"input_tokens": 30, "output_tokens": 6}
}`

func TestAnthropicProvider_Name(t *testing.T) {
	provider := NewAnthropicProvider("sk-ant-test")
	assert.Equal(t, "anthropic", provider.Name())
}

func TestAnthropicProvider_Complete(t *testing.T) {
	var hits atomic.Int32
	var body map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(messageJSON))
	}))
	defer server.Close()

	provider := NewAnthropicProvider("sk-ant-test", option.WithBaseURL(server.URL+"/"))
	resp, err := provider.Complete(context.Background(), NewCompletionRequest("claude-3-5-haiku-latest", "sys", "tell me"))
	require.NoError(t, err)

	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, "Salt hung in the air.", resp.Text)
	assert.Equal(t, Usage{InputTokens: 30, OutputTokens: 6, TotalTokens: 36}, resp.Usage)
	assert.InDelta(t, 0.8, body["temperature"], 1e-9)
	assert.InDelta(t, 4096, body["max_tokens"], 1e-9)
}

func TestAnthropicProvider_CompleteError(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	}))
	defer server.Close()

	provider := NewAnthropicProvider("bad", option.WithBaseURL(server.URL+"/"))
	_, err := provider.Complete(context.Background(), NewCompletionRequest("m", "s", "u"))
	require.Error(t, err)
	assert.Equal(t, int32(1), hits.Load())
}
