// Package llm wraps the remote model providers behind a single Client
// interface. The rest of the application only ever sees chat-style
// messages in and assistant text out.
package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/vaninafuentes/EcoBot/internal/config"
)

// ErrNoContent is returned when the provider answers without any
// assistant text.
var ErrNoContent = errors.New("llm: completion returned no content")

// Message is a single chat message sent to the provider.
type Message struct {
	Role    string `json:"role"` // "system", "user" or "assistant"
	Content string `json:"content"`
}

// Request is a completion request.
type Request struct {
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// Response is the provider's answer.
type Response struct {
	Content string `json:"content"`
}

// Client is the interface for LLM providers.
type Client interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req *Request) (*Response, error)
	// ModelName returns the configured model identifier.
	ModelName() string
}

// New selects a provider from the configuration.
func New(cfg *config.Config) (Client, error) {
	switch cfg.Provider {
	case "groq":
		return NewGroqClient(cfg.GroqAPIKey, cfg.GroqModel)
	case "anthropic":
		return NewAnthropicClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	default:
		return nil, fmt.Errorf("unsupported LLM_PROVIDER %q (expected groq or anthropic)", cfg.Provider)
	}
}
