package main

import (
	"os"
	"strings"

	"github.com/ChamsBouzaiene/harvest/internal/config"
)

// providerEnvPrefix maps an LLM_PROVIDER value to the prefix of its *_API_KEY,
// *_MODEL and *_BASE_URL variables.
var providerEnvPrefix = map[string]string{
	"openai":    "OPENAI",
	"anthropic": "ANTHROPIC",
	"gemini":    "GEMINI",
	"kimi":      "KIMI",
	"deepseek":  "DEEPSEEK",
	"groq":      "GROQ",
	"lmstudio":  "LMSTUDIO",
	"ollama":    "OLLAMA",
}

// applyConfigToEnv lets saved config override the shell and .env files, so a
// provider chosen with `harvest config set` wins over stale variables.
func applyConfigToEnv(cfg *config.Config) {
	if cfg.LLMProvider != "" {
		os.Setenv("LLM_PROVIDER", cfg.LLMProvider)
	}
	if cfg.WeatherAPIKey != "" {
		os.Setenv("OPENWEATHER_API_KEY", cfg.WeatherAPIKey)
	}
	if cfg.LogMode != "" && os.Getenv("HARVEST_LOG_MODE") == "" {
		os.Setenv("HARVEST_LOG_MODE", cfg.LogMode)
	}

	prefix, ok := providerEnvPrefix[strings.ToLower(cfg.LLMProvider)]
	if !ok {
		return
	}
	if cfg.APIKey != "" {
		os.Setenv(prefix+"_API_KEY", cfg.APIKey)
	}
	if cfg.Model != "" {
		os.Setenv(prefix+"_MODEL", cfg.Model)
	}
	// Anthropic and Gemini clients have no base URL override.
	if cfg.BaseURL != "" && prefix != "ANTHROPIC" && prefix != "GEMINI" {
		os.Setenv(prefix+"_BASE_URL", cfg.BaseURL)
	}
}

// configView renders cfg for display with secrets masked.
func configView(cfg *config.Config) map[string]string {
	return map[string]string{
		"llm_provider":    cfg.LLMProvider,
		"api_key":         maskSecret(cfg.APIKey),
		"model":           cfg.Model,
		"base_url":        cfg.BaseURL,
		"weather_api_key": maskSecret(cfg.WeatherAPIKey),
		"log_mode":        cfg.LogMode,
	}
}

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "****" + s[len(s)-4:]
}
