package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenAIProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewOpenAIProvider("test-key", "gpt-3.5-turbo", server.URL+"/v1")
	require.NoError(t, err)
	return p
}

func writeCompletion(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   "gpt-3.5-turbo",
		"choices": []map[string]any{
			{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]any{"prompt_tokens": 12, "completion_tokens": 3, "total_tokens": 15},
	})
}

func TestOpenAIProvider_SendsSystemAndUserMessages(t *testing.T) {
	var captured struct {
		Model          string `json:"model"`
		ResponseFormat *struct {
			Type string `json:"type"`
		} `json:"response_format"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		writeCompletion(w, "  hola  ")
	})

	resp, err := p.Generate(context.Background(), UserRequest("Eres un tutor.", "hi"))
	require.NoError(t, err)
	assert.Equal(t, "hola", resp.Text)
	assert.Equal(t, 12, resp.Usage.InputTokens)
	assert.Equal(t, 3, resp.Usage.OutputTokens)

	assert.Equal(t, "gpt-3.5-turbo", captured.Model)
	assert.Nil(t, captured.ResponseFormat)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "Eres un tutor.", captured.Messages[0].Content)
	assert.Equal(t, "user", captured.Messages[1].Role)
	assert.Equal(t, "hi", captured.Messages[1].Content)
}

func TestOpenAIProvider_JSONMode(t *testing.T) {
	var format string
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ResponseFormat struct {
				Type string `json:"type"`
			} `json:"response_format"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		format = body.ResponseFormat.Type
		writeCompletion(w, `{"exercise":"x"}`)
	})

	req := UserRequest("sys", "user")
	req.JSON = true
	_, err := p.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "json_object", format)
}

func TestOpenAIProvider_EmptyReply(t *testing.T) {
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		writeCompletion(w, "   ")
	})
	_, err := p.Generate(context.Background(), UserRequest("sys", "user"))
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestOpenAIProvider_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(t *testing.T, err error)
	}{
		{"rate limit", http.StatusTooManyRequests, func(t *testing.T, err error) {
			var rl *ErrRateLimit
			assert.True(t, errors.As(err, &rl))
		}},
		{"server error", http.StatusInternalServerError, func(t *testing.T, err error) {
			var pu *ErrProviderUnavailable
			assert.True(t, errors.As(err, &pu))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]any{"message": "nope", "type": "server_error"},
				})
			})
			_, err := p.Generate(context.Background(), UserRequest("sys", "user"))
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestNewOpenAIProvider_RequiresKey(t *testing.T) {
	_, err := NewOpenAIProvider("", "gpt-3.5-turbo", "")
	assert.Error(t, err)
}
