package providers

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/ChamsBouzaiene/harvest/internal/engine"
)

// GeminiClient implements engine.LLMClient with the Google Gen AI SDK.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gemini API client.
func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiClient{client: client, model: modelName}, nil
}

// Model returns the default model name the client was created with.
func (c *GeminiClient) Model() string { return c.model }

// Chat implements engine.LLMClient.Chat. System messages become the request's
// system instruction.
func (c *GeminiClient) Chat(ctx context.Context, modelName string, messages []engine.ChatMessage, opts engine.ChatOptions) (engine.LLMResponse, error) {
	if modelName == "" {
		modelName = c.model
	}

	config := &genai.GenerateContentConfig{}
	if opts.Temperature > 0 {
		config.Temperature = genai.Ptr(opts.Temperature)
	}
	if opts.MaxOutputTokens > 0 {
		config.MaxOutputTokens = int32(opts.MaxOutputTokens)
	}

	var system []string
	contents := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case engine.RoleSystem:
			system = append(system, msg.Content)
		case engine.RoleUser:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		case engine.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			return engine.LLMResponse{}, fmt.Errorf("invalid message role: %s", msg.Role)
		}
	}
	if len(system) > 0 {
		config.SystemInstruction = genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser)
	}

	resp, err := c.client.Models.GenerateContent(ctx, modelName, contents, config)
	if err != nil {
		return engine.LLMResponse{}, wrapGeminiError(err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return engine.LLMResponse{}, fmt.Errorf("empty response from Gemini")
	}

	candidate := resp.Candidates[0]
	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			text.WriteString(part.Text)
		}
	}

	finishReason := "stop"
	switch candidate.FinishReason {
	case genai.FinishReasonMaxTokens:
		finishReason = "length"
	case genai.FinishReasonSafety:
		finishReason = "content_filter"
	}

	var usage engine.Usage
	if resp.UsageMetadata != nil {
		usage = engine.Usage{
			Prompt:     int(resp.UsageMetadata.PromptTokenCount),
			Completion: int(resp.UsageMetadata.CandidatesTokenCount),
			Total:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}

	return engine.LLMResponse{
		Assistant: engine.ChatMessage{
			Role:    engine.RoleAssistant,
			Content: text.String(),
		},
		Usage:        usage,
		FinishReason: finishReason,
	}, nil
}
