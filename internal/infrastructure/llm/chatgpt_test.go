package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ReviewReporter/internal/config"
)

func completion(content string) string {
	return `{
	  "id": "chatcmpl-1",
	  "object": "chat.completion",
	  "created": 1,
	  "model": "gpt-4o-mini",
	  "choices": [{
	    "index": 0,
	    "finish_reason": "stop",
	    "logprobs": null,
	    "message": {"role": "assistant", "content": ` + jsonQuote(content) + `, "refusal": null}
	  }],
	  "usage": {"prompt_tokens": 10, "completion_tokens": 1, "total_tokens": 11}
	}`
}

func jsonQuote(s string) string {
	raw, _ := json.Marshal(s)
	return string(raw)
}

func TestChatGPTClientScore(t *testing.T) {
	t.Parallel()

	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completion("0.6")))
	}))
	defer server.Close()

	client := NewChatGPTClient(config.ChatGPTConfig{
		Endpoint: server.URL,
		Model:    "gpt-4o-mini",
		APIKey:   "test-key",
	})

	polarity, err := client.Score(context.Background(), "Love the new update")
	require.NoError(t, err)
	assert.InDelta(t, 0.6, polarity, 1e-9)

	assert.Equal(t, "gpt-4o-mini", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, defaultSystemPrompt, got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "Love the new update", got.Messages[1].Content)
}

func TestChatGPTClientServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "bad key", "type": "invalid_request_error"}}`))
	}))
	defer server.Close()

	client := NewChatGPTClient(config.ChatGPTConfig{Endpoint: server.URL, Model: "m", APIKey: "k"})
	_, err := client.Score(context.Background(), "text")
	require.Error(t, err)
}

func TestChatGPTClientMisconfigured(t *testing.T) {
	t.Parallel()

	_, err := NewChatGPTClient(config.ChatGPTConfig{APIKey: "k"}).Score(context.Background(), "text")
	require.Error(t, err)
}

func TestParsePolarity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		reply   string
		want    float64
		wantErr bool
	}{
		{reply: "0.25", want: 0.25},
		{reply: "Polarity: -0.8", want: -0.8},
		{reply: "1", want: 1},
		{reply: "7", want: 1},
		{reply: "-2.5", want: -1},
		{reply: "neutral", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parsePolarity(tt.reply)
		if tt.wantErr {
			assert.Error(t, err, tt.reply)
			continue
		}
		require.NoError(t, err, tt.reply)
		assert.InDelta(t, tt.want, got, 1e-9, tt.reply)
	}
}
