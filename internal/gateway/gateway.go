// Package gateway sends one system + user prompt pair to the configured language
// model and returns the generated text.
package gateway

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ChamsBouzaiene/harvest/internal/engine"
)

const (
	Temperature     float32 = 0.7
	MaxOutputTokens         = 2048
)

// Completer is what page handlers depend on.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Gateway is the Completer backed by an engine.LLMClient.
type Gateway struct {
	client engine.LLMClient
	model  string
	logger *zap.Logger
}

// New creates a Gateway. A nil client is allowed: every call then fails with a
// ConfigurationError, so the app can start and show pages without a credential.
func New(client engine.LLMClient, model string, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{client: client, model: model, logger: logger}
}

// Configured reports whether a client is available.
func (g *Gateway) Configured() bool { return g.client != nil }

// Complete runs one synchronous completion and returns the first generated
// message exactly as received.
func (g *Gateway) Complete(ctx context.Context, system, user string) (string, error) {
	if g.client == nil {
		return "", &ConfigurationError{Reason: "no API key configured"}
	}

	messages := []engine.ChatMessage{
		{Role: engine.RoleSystem, Content: system},
		{Role: engine.RoleUser, Content: user},
	}
	opts := engine.ChatOptions{
		Temperature:     Temperature,
		MaxOutputTokens: MaxOutputTokens,
	}

	g.logger.Debug("completion requested",
		zap.String("model", g.model),
		zap.Int("prompt_tokens_est", engine.EstimateMessageTokens(messages)))

	resp, err := g.client.Chat(ctx, g.model, messages, opts)
	if err != nil {
		if engine.IsAuthError(err) {
			g.logger.Warn("model credential rejected", zap.String("model", g.model), zap.Error(err))
			return "", &ConfigurationError{Reason: "API key rejected by provider", Err: err}
		}
		g.logger.Warn("completion failed",
			zap.String("model", g.model),
			zap.String("retry_class", string(engine.ClassifyLLMError(err))),
			zap.Error(err))
		return "", &ServiceError{Err: err}
	}

	g.logger.Debug("completion finished",
		zap.String("model", g.model),
		zap.String("finish_reason", resp.FinishReason),
		zap.Int("total_tokens", resp.Usage.Total))

	return resp.Assistant.Content, nil
}

var _ Completer = (*Gateway)(nil)

// Func adapts a plain function to Completer.
type Func func(ctx context.Context, system, user string) (string, error)

func (f Func) Complete(ctx context.Context, system, user string) (string, error) {
	return f(ctx, system, user)
}

// String describes the gateway for diagnostics.
func (g *Gateway) String() string {
	if g.client == nil {
		return "gateway(unconfigured)"
	}
	return fmt.Sprintf("gateway(%s)", g.model)
}
