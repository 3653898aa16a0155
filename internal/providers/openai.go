// Package providers implements engine.LLMClient on top of the OpenAI, Anthropic
// and Gemini SDKs.
package providers

import (
	"context"
	"fmt"

	openai "github.com/meguminnnnnnnnn/go-openai"

	"github.com/ChamsBouzaiene/harvest/internal/engine"
)

// OpenAIClient implements engine.LLMClient for OpenAI and OpenAI-compatible APIs.
type OpenAIClient struct {
	client  *openai.Client
	model   string
	baseURL string
}

// NewOpenAIClient creates a new OpenAI client. An empty baseURL targets api.openai.com.
func NewOpenAIClient(apiKey, modelName, baseURL string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai: api key is required")
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &OpenAIClient{
		client:  openai.NewClientWithConfig(config),
		model:   modelName,
		baseURL: baseURL,
	}, nil
}

// Model returns the default model name the client was created with.
func (c *OpenAIClient) Model() string { return c.model }

// Chat implements engine.LLMClient.Chat.
func (c *OpenAIClient) Chat(ctx context.Context, modelName string, messages []engine.ChatMessage, opts engine.ChatOptions) (engine.LLMResponse, error) {
	if modelName == "" {
		modelName = c.model
	}

	req := openai.ChatCompletionRequest{
		Model:    modelName,
		Messages: make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, msg := range messages {
		if err := msg.Validate(); err != nil {
			return engine.LLMResponse{}, err
		}
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    openAIRole(msg.Role),
			Content: msg.Content,
		})
	}

	if opts.MaxOutputTokens > 0 {
		req.MaxTokens = opts.MaxOutputTokens
	}
	if opts.Temperature > 0 {
		req.Temperature = &opts.Temperature
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return engine.LLMResponse{}, wrapOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return engine.LLMResponse{}, fmt.Errorf("empty response from OpenAI")
	}

	choice := resp.Choices[0]

	finishReason := "stop"
	switch choice.FinishReason {
	case openai.FinishReasonLength:
		finishReason = "length"
	case openai.FinishReasonContentFilter:
		finishReason = "content_filter"
	}

	return engine.LLMResponse{
		Assistant: engine.ChatMessage{
			Role:    engine.RoleAssistant,
			Content: choice.Message.Content,
		},
		Usage: engine.Usage{
			Prompt:     resp.Usage.PromptTokens,
			Completion: resp.Usage.CompletionTokens,
			Total:      resp.Usage.TotalTokens,
		},
		FinishReason: finishReason,
	}, nil
}

func openAIRole(role engine.MessageRole) string {
	switch role {
	case engine.RoleSystem:
		return openai.ChatMessageRoleSystem
	case engine.RoleAssistant:
		return openai.ChatMessageRoleAssistant
	default:
		return openai.ChatMessageRoleUser
	}
}
