package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseMode(t *testing.T) {
	cases := map[string]Mode{
		"":            Development,
		"dev":         Development,
		"Development": Development,
		"prod":        Production,
		" JSON ":      Production,
	}
	for in, want := range cases {
		got, err := ParseMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseMode("verbose")
	assert.Error(t, err)
}

func TestNew_LevelOverride(t *testing.T) {
	logger, err := New(Production, "warn")
	require.NoError(t, err)
	defer func() { _ = logger.Sync() }()

	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestNew_DevelopmentDefaultsToDebug(t *testing.T) {
	logger, err := New(Development, "")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(Development, "loud")
	assert.Error(t, err)
}
