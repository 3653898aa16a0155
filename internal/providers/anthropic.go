package providers

import (
	"context"
	"fmt"
	"strings"

	anthropic "github.com/liushuangls/go-anthropic/v2"

	"github.com/ChamsBouzaiene/harvest/internal/engine"
)

// AnthropicClient implements engine.LLMClient by calling the Anthropic Messages API.
type AnthropicClient struct {
	client *anthropic.Client
	model  string
}

// NewAnthropicClient creates a new Anthropic client.
func NewAnthropicClient(apiKey, modelName string) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic: api key is required")
	}

	return &AnthropicClient{
		client: anthropic.NewClient(apiKey),
		model:  modelName,
	}, nil
}

// Model returns the default model name the client was created with.
func (c *AnthropicClient) Model() string { return c.model }

// Chat implements engine.LLMClient.Chat. System messages are sent as system
// parts; the Messages API does not accept them inline.
func (c *AnthropicClient) Chat(ctx context.Context, modelName string, messages []engine.ChatMessage, opts engine.ChatOptions) (engine.LLMResponse, error) {
	if modelName == "" {
		modelName = c.model
	}

	var systemParts []anthropic.MessageSystemPart
	var anthropicMsgs []anthropic.Message

	for _, msg := range messages {
		switch msg.Role {
		case engine.RoleSystem:
			systemParts = append(systemParts, anthropic.MessageSystemPart{
				Type: "text",
				Text: msg.Content,
			})
		case engine.RoleUser:
			anthropicMsgs = append(anthropicMsgs, anthropic.Message{
				Role:    anthropic.RoleUser,
				Content: []anthropic.MessageContent{anthropic.NewTextMessageContent(msg.Content)},
			})
		case engine.RoleAssistant:
			anthropicMsgs = append(anthropicMsgs, anthropic.Message{
				Role:    anthropic.RoleAssistant,
				Content: []anthropic.MessageContent{anthropic.NewTextMessageContent(msg.Content)},
			})
		default:
			return engine.LLMResponse{}, fmt.Errorf("invalid message role: %s", msg.Role)
		}
	}

	maxTokens := 4096
	if opts.MaxOutputTokens > 0 {
		maxTokens = opts.MaxOutputTokens
	}

	req := anthropic.MessagesRequest{
		Model:     anthropic.Model(modelName),
		Messages:  anthropicMsgs,
		MaxTokens: maxTokens,
	}
	if opts.Temperature > 0 {
		temperature := opts.Temperature
		req.Temperature = &temperature
	}
	if len(systemParts) > 0 {
		req.MultiSystem = systemParts
	}

	resp, err := c.client.CreateMessages(ctx, req)
	if err != nil {
		return engine.LLMResponse{}, wrapAnthropicError(err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == anthropic.MessagesContentTypeText && block.Text != nil {
			text.WriteString(*block.Text)
		}
	}

	finishReason := "stop"
	if resp.StopReason == "max_tokens" {
		finishReason = "length"
	}

	return engine.LLMResponse{
		Assistant: engine.ChatMessage{
			Role:    engine.RoleAssistant,
			Content: text.String(),
		},
		Usage: engine.Usage{
			Prompt:     resp.Usage.InputTokens,
			Completion: resp.Usage.OutputTokens,
			Total:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
		},
		FinishReason: finishReason,
	}, nil
}
