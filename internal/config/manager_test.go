package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_LoadMissingReturnsEmpty(t *testing.T) {
	m := NewManagerAt(filepath.Join(t.TempDir(), "harvest"))

	assert.False(t, m.Exists())
	cfg, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestManager_SaveLoad(t *testing.T) {
	m := NewManagerAt(filepath.Join(t.TempDir(), "harvest"))
	want := &Config{LLMProvider: "groq", APIKey: "gsk-1", Model: "llama3", WeatherAPIKey: "owm"}

	require.NoError(t, m.Save(want))
	assert.True(t, m.Exists())

	got, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	if runtime.GOOS != "windows" {
		info, err := os.Stat(m.GetConfigPath())
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}
}

func TestManager_LoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	m := NewManagerAt(dir)
	require.NoError(t, os.WriteFile(m.GetConfigPath(), []byte("{not json"), 0o600))

	_, err := m.Load()
	assert.ErrorContains(t, err, "parse config json")
}

func TestConfig_Set(t *testing.T) {
	var cfg Config
	for _, key := range Keys() {
		require.NoError(t, cfg.Set(key, "v-"+key), key)
	}
	assert.Equal(t, "v-llm_provider", cfg.LLMProvider)
	assert.Equal(t, "v-weather_api_key", cfg.WeatherAPIKey)
	assert.Equal(t, "v-log_mode", cfg.LogMode)

	assert.Error(t, cfg.Set("auto_index", "true"))
}
