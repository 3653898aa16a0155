package gateway

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChamsBouzaiene/harvest/internal/engine"
)

// MockLLM records the last request and replays a canned response.
type MockLLM struct {
	Response engine.LLMResponse
	Err      error

	Calls    int
	Model    string
	Messages []engine.ChatMessage
	Opts     engine.ChatOptions
}

func (m *MockLLM) Chat(ctx context.Context, model string, messages []engine.ChatMessage, opts engine.ChatOptions) (engine.LLMResponse, error) {
	m.Calls++
	m.Model = model
	m.Messages = messages
	m.Opts = opts
	return m.Response, m.Err
}

func TestComplete_Success(t *testing.T) {
	llm := &MockLLM{Response: engine.LLMResponse{
		Assistant: engine.ChatMessage{Role: engine.RoleAssistant, Content: "  Plant maize.\n"},
	}}
	g := New(llm, "gpt-4o-mini", nil)

	out, err := g.Complete(context.Background(), "sys", "usr")
	require.NoError(t, err)
	assert.Equal(t, "  Plant maize.\n", out, "text is returned verbatim")

	assert.Equal(t, 1, llm.Calls)
	assert.Equal(t, "gpt-4o-mini", llm.Model)
	assert.Equal(t, []engine.ChatMessage{
		{Role: engine.RoleSystem, Content: "sys"},
		{Role: engine.RoleUser, Content: "usr"},
	}, llm.Messages)
	assert.Equal(t, float32(0.7), llm.Opts.Temperature)
	assert.Equal(t, 2048, llm.Opts.MaxOutputTokens)
}

func TestComplete_NoClient(t *testing.T) {
	g := New(nil, "", nil)
	assert.False(t, g.Configured())

	_, err := g.Complete(context.Background(), "sys", "usr")
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
	assert.False(t, IsServiceError(err))
}

func TestComplete_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantConfig bool
	}{
		{
			name:       "unauthorized",
			err:        engine.WrapLLMError(errors.New("status code: 401"), http.StatusUnauthorized, ""),
			wantConfig: true,
		},
		{
			name:       "forbidden",
			err:        engine.WrapLLMError(errors.New("status code: 403"), http.StatusForbidden, ""),
			wantConfig: true,
		},
		{
			name: "server error",
			err:  engine.WrapLLMError(errors.New("status code: 503"), http.StatusServiceUnavailable, ""),
		},
		{
			name: "plain transport error",
			err:  errors.New("dial tcp: connection refused"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(&MockLLM{Err: tt.err}, "m", nil)

			_, err := g.Complete(context.Background(), "sys", "usr")
			require.Error(t, err)
			assert.Equal(t, tt.wantConfig, IsConfigurationError(err))
			assert.Equal(t, !tt.wantConfig, IsServiceError(err))
			assert.ErrorIs(t, err, tt.err)
			assert.Contains(t, err.Error(), tt.err.Error(), "underlying message is carried")
		})
	}
}

func TestFunc(t *testing.T) {
	var c Completer = Func(func(ctx context.Context, system, user string) (string, error) {
		return system + "|" + user, nil
	})
	out, err := c.Complete(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "a|b", out)
}
