package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LLM_PROVIDER",
		"OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_BASE_URL",
		"ANTHROPIC_API_KEY", "ANTHROPIC_MODEL",
		"GEMINI_API_KEY", "GEMINI_MODEL",
		"OLLAMA_API_KEY", "OLLAMA_MODEL", "OLLAMA_BASE_URL",
		"DEEPSEEK_API_KEY",
	} {
		t.Setenv(key, "")
	}
}

func TestNewLLMClientFromEnv_DefaultsToOpenAI(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	client, model, err := NewLLMClientFromEnv(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultOpenAIModel, model)

	oc, ok := client.(*OpenAIClient)
	require.True(t, ok, "expected *OpenAIClient, got %T", client)
	assert.Equal(t, DefaultOpenAIModel, oc.Model())
}

func TestNewLLMClientFromEnv_MissingKey(t *testing.T) {
	tests := []struct {
		provider string
		wantErr  string
	}{
		{"openai", "OPENAI_API_KEY not set"},
		{"anthropic", "ANTHROPIC_API_KEY not set"},
		{"gemini", "GEMINI_API_KEY not set"},
		{"deepseek", "DEEPSEEK_API_KEY not set"},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			clearProviderEnv(t)
			t.Setenv("LLM_PROVIDER", tt.provider)

			client, _, err := NewLLMClientFromEnv(context.Background())
			require.Error(t, err)
			assert.Nil(t, client)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewLLMClientFromEnv_Anthropic(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("LLM_PROVIDER", "Anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "key")
	t.Setenv("ANTHROPIC_MODEL", "claude-test")

	client, model, err := NewLLMClientFromEnv(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "claude-test", model)
	assert.IsType(t, &AnthropicClient{}, client)
}

func TestNewLLMClientFromEnv_KeylessLocalProvider(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("LLM_PROVIDER", "ollama")

	client, model, err := NewLLMClientFromEnv(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "llama3.1", model)

	oc, ok := client.(*OpenAIClient)
	require.True(t, ok)
	assert.Equal(t, "http://localhost:11434/v1", oc.baseURL)
}

func TestNewLLMClientFromEnv_UnknownProvider(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("LLM_PROVIDER", "carrier-pigeon")

	_, _, err := NewLLMClientFromEnv(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown LLM_PROVIDER")
	assert.Contains(t, err.Error(), "gemini")
}

func TestSupportedProviders(t *testing.T) {
	names := SupportedProviders()
	assert.Equal(t, []string{"openai", "anthropic", "gemini"}, names[:3])
	assert.ElementsMatch(t, []string{"deepseek", "groq", "kimi", "lmstudio", "ollama"}, names[3:])
}
