package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the user's persistent configuration preferences.
type Config struct {
	LLMProvider   string `json:"llm_provider,omitempty"`    // openai, anthropic, gemini, groq, etc.
	APIKey        string `json:"api_key,omitempty"`         // The API key for the selected provider
	Model         string `json:"model,omitempty"`           // Default model name
	BaseURL       string `json:"base_url,omitempty"`        // Optional override for API base URL
	WeatherAPIKey string `json:"weather_api_key,omitempty"` // OpenWeatherMap key
	LogMode       string `json:"log_mode,omitempty"`        // development or production
}

// Manager handles loading and saving the configuration.
type Manager struct {
	configDir string
}

// NewManager creates a configuration manager rooted at <UserConfigDir>/harvest.
func NewManager() (*Manager, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user config dir: %w", err)
	}
	return NewManagerAt(filepath.Join(configDir, "harvest")), nil
}

// NewManagerAt creates a manager that keeps config.json in dir.
func NewManagerAt(dir string) *Manager {
	return &Manager{configDir: dir}
}

// GetConfigPath returns the absolute path to the config.json file.
func (m *Manager) GetConfigPath() string {
	return filepath.Join(m.configDir, "config.json")
}

// Load reads the configuration from disk.
// If the file does not exist, it returns an empty Config and no error.
func (m *Manager) Load() (*Config, error) {
	data, err := os.ReadFile(m.GetConfigPath())
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config json: %w", err)
	}
	return &cfg, nil
}

// Save writes the configuration to disk with restricted permissions (0600).
func (m *Manager) Save(cfg *Config) error {
	if err := os.MkdirAll(m.configDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// API keys live here; owner read/write only.
	if err := os.WriteFile(m.GetConfigPath(), data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Exists checks if the configuration file has been created.
func (m *Manager) Exists() bool {
	_, err := os.Stat(m.GetConfigPath())
	return !os.IsNotExist(err)
}

// Set assigns one field by its JSON key. It backs `harvest config set`.
func (c *Config) Set(key, value string) error {
	switch key {
	case "llm_provider":
		c.LLMProvider = value
	case "api_key":
		c.APIKey = value
	case "model":
		c.Model = value
	case "base_url":
		c.BaseURL = value
	case "weather_api_key":
		c.WeatherAPIKey = value
	case "log_mode":
		c.LogMode = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

// Keys lists the settable config keys.
func Keys() []string {
	return []string{"llm_provider", "api_key", "model", "base_url", "weather_api_key", "log_mode"}
}
