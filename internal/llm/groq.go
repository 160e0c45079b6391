package llm

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const groqBaseURL = "https://api.groq.com/openai/v1"

// GroqClient talks to Groq's OpenAI-compatible chat completions API.
type GroqClient struct {
	client openai.Client
	model  string
}

// NewGroqClient creates a Groq client for the given model. An empty model
// falls back to llama-3.1-8b-instant.
func NewGroqClient(apiKey, modelID string) (*GroqClient, error) {
	return newGroqClient(apiKey, modelID, groqBaseURL)
}

// newGroqClient allows tests to point the client at a local server.
func newGroqClient(apiKey, modelID, baseURL string) (*GroqClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("groq client requires an API key")
	}

	model := strings.TrimSpace(modelID)
	if model == "" {
		model = "llama-3.1-8b-instant"
	}

	return &GroqClient{
		client: openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithBaseURL(baseURL),
		),
		model: model,
	}, nil
}

func (c *GroqClient) ModelName() string {
	return c.model
}

func (c *GroqClient) Complete(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, fmt.Errorf("groq completion request cannot be nil")
	}

	messages, err := convertMessagesToOpenAI(req.Messages)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, fmt.Errorf("groq completion requires at least one message")
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: messages,
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("groq completion failed: %w", err)
	}

	if len(completion.Choices) == 0 {
		return nil, ErrNoContent
	}

	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	if content == "" {
		return nil, ErrNoContent
	}

	return &Response{Content: content}, nil
}

func convertMessagesToOpenAI(messages []Message) ([]openai.ChatCompletionMessageParamUnion, error) {
	converted := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for idx, msg := range messages {
		content := strings.TrimSpace(msg.Content)
		if content == "" {
			continue
		}

		switch strings.ToLower(strings.TrimSpace(msg.Role)) {
		case "system":
			converted = append(converted, openai.SystemMessage(content))
		case "assistant":
			converted = append(converted, openai.AssistantMessage(content))
		case "user":
			converted = append(converted, openai.UserMessage(content))
		default:
			return nil, fmt.Errorf("invalid message role %q at index %d", msg.Role, idx)
		}
	}
	return converted, nil
}
