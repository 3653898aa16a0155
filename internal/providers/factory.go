package providers

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ChamsBouzaiene/harvest/internal/engine"
)

// DefaultOpenAIModel is the model used when OPENAI_MODEL is unset.
const DefaultOpenAIModel = "gpt-4o-mini"

// compatibleProvider describes an OpenAI-compatible endpoint selectable by LLM_PROVIDER.
type compatibleProvider struct {
	envPrefix    string
	defaultModel string
	defaultURL   string
	// keyless providers run locally and accept any key.
	keyless bool
}

var compatibleProviders = map[string]compatibleProvider{
	"kimi":     {envPrefix: "KIMI", defaultModel: "kimi-k2-250711", defaultURL: "https://ark.ap-southeast.bytepluses.com/api/v3"},
	"deepseek": {envPrefix: "DEEPSEEK", defaultModel: "deepseek-chat", defaultURL: "https://api.deepseek.com/v1"},
	"groq":     {envPrefix: "GROQ", defaultModel: "llama-3.1-70b-versatile", defaultURL: "https://api.groq.com/openai/v1"},
	"lmstudio": {envPrefix: "LMSTUDIO", defaultModel: "local-model", defaultURL: "http://localhost:1234/v1", keyless: true},
	"ollama":   {envPrefix: "OLLAMA", defaultModel: "llama3.1", defaultURL: "http://localhost:11434/v1", keyless: true},
}

// SupportedProviders lists every LLM_PROVIDER value the factory understands.
func SupportedProviders() []string {
	names := []string{"openai", "anthropic", "gemini"}
	for name := range compatibleProviders {
		names = append(names, name)
	}
	sort.Strings(names[3:])
	return names
}

// NewLLMClientFromEnv creates an engine.LLMClient based on environment variables.
// It returns the client and the model name requests should use. A missing API key
// is an error; callers that can run without a model (the advisory pages degrade to
// a configuration error) may ignore it and continue with a nil client.
func NewLLMClientFromEnv(ctx context.Context) (engine.LLMClient, string, error) {
	provider := strings.ToLower(strings.TrimSpace(os.Getenv("LLM_PROVIDER")))
	if provider == "" {
		provider = "openai"
	}

	switch provider {
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, "", fmt.Errorf("OPENAI_API_KEY not set")
		}
		modelName := envOr("OPENAI_MODEL", DefaultOpenAIModel)

		client, err := NewOpenAIClient(apiKey, modelName, os.Getenv("OPENAI_BASE_URL"))
		if err != nil {
			return nil, "", fmt.Errorf("failed to create OpenAI client: %w", err)
		}
		return client, modelName, nil

	case "anthropic":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, "", fmt.Errorf("ANTHROPIC_API_KEY not set")
		}
		modelName := envOr("ANTHROPIC_MODEL", "claude-3-5-haiku-latest")

		client, err := NewAnthropicClient(apiKey, modelName)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create Anthropic client: %w", err)
		}
		return client, modelName, nil

	case "gemini":
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			return nil, "", fmt.Errorf("GEMINI_API_KEY not set")
		}
		modelName := envOr("GEMINI_MODEL", "gemini-2.0-flash")

		client, err := NewGeminiClient(ctx, apiKey, modelName)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create Gemini client: %w", err)
		}
		return client, modelName, nil
	}

	p, ok := compatibleProviders[provider]
	if !ok {
		return nil, "", fmt.Errorf("unknown LLM_PROVIDER: %s (supported: %s)", provider, strings.Join(SupportedProviders(), ", "))
	}

	apiKey := os.Getenv(p.envPrefix + "_API_KEY")
	if apiKey == "" {
		if !p.keyless {
			return nil, "", fmt.Errorf("%s_API_KEY not set", p.envPrefix)
		}
		apiKey = provider
	}
	modelName := envOr(p.envPrefix+"_MODEL", p.defaultModel)
	baseURL := envOr(p.envPrefix+"_BASE_URL", p.defaultURL)

	client, err := NewOpenAIClient(apiKey, modelName, baseURL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create %s client: %w", provider, err)
	}
	return client, modelName, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
