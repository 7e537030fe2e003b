package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pawcare/backend/pkg/config"
)

func completionServer(t *testing.T, status int, content string) (*httptest.Server, *map[string]any) {
	t.Helper()
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"upstream down","type":"server_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func TestOpenAIGenerator_Generate(t *testing.T) {
	srv, got := completionServer(t, http.StatusOK, "  おさんぽ たのしいね  ")
	g := NewOpenAIGenerator("sk-test", "", option.WithBaseURL(srv.URL), option.WithMaxRetries(0))

	out, err := g.Generate(context.Background(), "be a dog")
	require.NoError(t, err)
	require.Equal(t, "おさんぽ たのしいね", out)
	require.Equal(t, "gpt-4o-mini", (*got)["model"])
	require.EqualValues(t, maxTokens, (*got)["max_tokens"])
	msgs := (*got)["messages"].([]any)
	require.Len(t, msgs, 1)
	require.Equal(t, "system", msgs[0].(map[string]any)["role"])
}

func TestOpenAIGenerator_Errors(t *testing.T) {
	srv, _ := completionServer(t, http.StatusInternalServerError, "")
	g := NewOpenAIGenerator("sk-test", "gpt-4o-mini", option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	_, err := g.Generate(context.Background(), "be a dog")
	require.Error(t, err)

	empty, _ := completionServer(t, http.StatusOK, "   ")
	g = NewOpenAIGenerator("sk-test", "gpt-4o-mini", option.WithBaseURL(empty.URL), option.WithMaxRetries(0))
	_, err = g.Generate(context.Background(), "be a dog")
	require.ErrorIs(t, err, ErrEmptyReply)
}

func TestNewGenerator_WithoutKey(t *testing.T) {
	g := NewGenerator(&config.Config{}, zap.NewNop().Sugar())
	_, err := g.Generate(context.Background(), "be a dog")
	require.ErrorIs(t, err, ErrNotConfigured)
}
