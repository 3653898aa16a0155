// Package logging builds the zap loggers used by the CLI and the HTTP server.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Mode selects the encoder and default level of a logger.
type Mode string

const (
	Development Mode = "development"
	Production  Mode = "production"
)

// ParseMode accepts the spellings used in HARVEST_LOG_MODE.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dev", "development":
		return Development, nil
	case "prod", "production", "json":
		return Production, nil
	}
	return "", fmt.Errorf("unknown log mode %q", s)
}

// New builds a logger for mode. level overrides the mode default when non-empty.
// Production logs are JSON on stderr; development logs are colored console lines.
func New(mode Mode, level string) (*zap.Logger, error) {
	var cfg zap.Config
	switch mode {
	case Production:
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// Nop returns a logger that discards everything.
func Nop() *zap.Logger { return zap.NewNop() }
