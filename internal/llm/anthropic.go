package llm

import (
	"context"
	"fmt"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	defaultAnthropicModel     = "claude-3-5-haiku-latest"
	defaultAnthropicMaxTokens = 1024
)

// AnthropicClient implements the Client interface using the official
// Anthropic SDK.
type AnthropicClient struct {
	client anthropic.Client
	model  string
}

// NewAnthropicClient creates an Anthropic client backed by the official SDK.
func NewAnthropicClient(apiKey, modelName string) (*AnthropicClient, error) {
	key := strings.TrimSpace(apiKey)
	if key == "" {
		return nil, fmt.Errorf("anthropic client requires an API key")
	}

	model := strings.TrimSpace(modelName)
	if model == "" {
		model = defaultAnthropicModel
	}

	return &AnthropicClient{
		client: anthropic.NewClient(option.WithAPIKey(key)),
		model:  model,
	}, nil
}

func (c *AnthropicClient) ModelName() string {
	return c.model
}

func (c *AnthropicClient) Complete(ctx context.Context, req *Request) (*Response, error) {
	params, err := c.buildMessageParams(req)
	if err != nil {
		return nil, err
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic completion failed: %w", err)
	}

	content := collectAnthropicText(msg.Content)
	if strings.TrimSpace(content) == "" {
		return nil, ErrNoContent
	}

	return &Response{Content: strings.TrimSpace(content)}, nil
}

func (c *AnthropicClient) buildMessageParams(req *Request) (anthropic.MessageNewParams, error) {
	if req == nil {
		return anthropic.MessageNewParams{}, fmt.Errorf("anthropic completion request cannot be nil")
	}

	systemBlocks, chatMessages, err := convertMessagesToAnthropic(req.Messages)
	if err != nil {
		return anthropic.MessageNewParams{}, err
	}
	if len(chatMessages) == 0 {
		return anthropic.MessageNewParams{}, fmt.Errorf("anthropic completion requires at least one user or assistant message")
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(maxTokens),
		Messages:  chatMessages,
	}

	if len(systemBlocks) > 0 {
		params.System = systemBlocks
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}

	return params, nil
}

func convertMessagesToAnthropic(messages []Message) ([]anthropic.TextBlockParam, []anthropic.MessageParam, error) {
	systemBlocks := make([]anthropic.TextBlockParam, 0, 1)
	chatMessages := make([]anthropic.MessageParam, 0, len(messages))

	for idx, msg := range messages {
		content := strings.TrimSpace(msg.Content)
		if content == "" {
			continue
		}

		switch strings.ToLower(strings.TrimSpace(msg.Role)) {
		case "system":
			systemBlocks = append(systemBlocks, anthropic.TextBlockParam{Text: content})
		case "assistant":
			chatMessages = append(chatMessages, anthropic.MessageParam{
				Role:    anthropic.MessageParamRoleAssistant,
				Content: []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(content)},
			})
		case "user":
			chatMessages = append(chatMessages, anthropic.MessageParam{
				Role:    anthropic.MessageParamRoleUser,
				Content: []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(content)},
			})
		default:
			return nil, nil, fmt.Errorf("invalid message role %q at index %d", msg.Role, idx)
		}
	}

	return systemBlocks, chatMessages, nil
}

func collectAnthropicText(blocks []anthropic.ContentBlockUnion) string {
	if len(blocks) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, block := range blocks {
		if block.Type != "text" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(block.Text)
	}
	return sb.String()
}
