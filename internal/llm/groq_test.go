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

func TestNewGroqClientRequiresAPIKey(t *testing.T) {
	_, err := NewGroqClient("", "llama-3.3-70b-versatile")
	require.Error(t, err)
}

func TestNewGroqClientDefaultModel(t *testing.T) {
	c, err := NewGroqClient("test-key", "  ")
	require.NoError(t, err)
	assert.Equal(t, "llama-3.1-8b-instant", c.ModelName())
}

func TestGroqComplete(t *testing.T) {
	var captured map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "llama-3.3-70b-versatile",
			"choices": [{
				"index": 0,
				"message": {"role": "assistant", "content": "  La demanda baja.  "},
				"finish_reason": "stop"
			}]
		}`))
	}))
	defer srv.Close()

	c, err := newGroqClient("test-key", "llama-3.3-70b-versatile", srv.URL)
	require.NoError(t, err)

	resp, err := c.Complete(context.Background(), &Request{
		Messages: []Message{
			{Role: "system", Content: "sos un profe"},
			{Role: "user", Content: "que pasa si sube el precio?"},
		},
		Temperature: 0.55,
		MaxTokens:   380,
	})
	require.NoError(t, err)
	assert.Equal(t, "La demanda baja.", resp.Content)

	assert.Equal(t, "llama-3.3-70b-versatile", captured["model"])
	assert.InDelta(t, 0.55, captured["temperature"].(float64), 1e-9)
	msgs := captured["messages"].([]interface{})
	require.Len(t, msgs, 2)
}

func TestGroqCompleteEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "chatcmpl-2", "object": "chat.completion", "choices": []}`))
	}))
	defer srv.Close()

	c, err := newGroqClient("test-key", "llama-3.3-70b-versatile", srv.URL)
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), &Request{
		Messages: []Message{{Role: "user", Content: "hola"}},
	})
	require.ErrorIs(t, err, ErrNoContent)
}

func TestGroqCompleteServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "model not found"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c, err := newGroqClient("test-key", "llama-3.3-70b-versatile", srv.URL)
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), &Request{
		Messages: []Message{{Role: "user", Content: "hola"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "groq completion failed")
}

func TestConvertMessagesToOpenAIRejectsUnknownRole(t *testing.T) {
	_, err := convertMessagesToOpenAI([]Message{{Role: "tool", Content: "x"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid message role")
}

func TestConvertMessagesToOpenAISkipsEmpty(t *testing.T) {
	converted, err := convertMessagesToOpenAI([]Message{
		{Role: "user", Content: "   "},
		{Role: "user", Content: "hola"},
	})
	require.NoError(t, err)
	assert.Len(t, converted, 1)
}
