package main

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/ChamsBouzaiene/harvest/internal/config"
	"github.com/ChamsBouzaiene/harvest/internal/controller"
	"github.com/ChamsBouzaiene/harvest/internal/gateway"
	"github.com/ChamsBouzaiene/harvest/internal/pages"
	"github.com/ChamsBouzaiene/harvest/internal/providers"
	"github.com/ChamsBouzaiene/harvest/internal/session"
	"github.com/ChamsBouzaiene/harvest/internal/weather"
)

// runtimeEnv holds the collaborators shared by every session in the process.
type runtimeEnv struct {
	gateway *gateway.Gateway
	weather *weather.Client
	catalog *pages.Catalog
	config  *config.Manager
	logger  *zap.Logger
}

// loadUserConfig reads the saved config and pushes it into the environment.
// A missing or unreadable file is logged and treated as empty.
func loadUserConfig(logger *zap.Logger) *config.Manager {
	mgr, err := config.NewManager()
	if err != nil {
		logger.Warn("config manager unavailable", zap.Error(err))
		return nil
	}
	cfg, err := mgr.Load()
	if err != nil {
		logger.Warn("failed to load user config", zap.String("path", mgr.GetConfigPath()), zap.Error(err))
		return mgr
	}
	if mgr.Exists() {
		logger.Debug("user config loaded", zap.String("path", mgr.GetConfigPath()))
	}
	applyConfigToEnv(cfg)
	return mgr
}

// prepareRuntimeEnv builds the model gateway and weather client from the
// environment. A missing model credential is not fatal: the advisory pages
// report it as a configuration error when used.
func prepareRuntimeEnv(ctx context.Context, cfgManager *config.Manager, logger *zap.Logger) (*runtimeEnv, error) {
	catalog, err := pages.LoadCatalog()
	if err != nil {
		return nil, err
	}

	client, model, err := providers.NewLLMClientFromEnv(ctx)
	if err != nil {
		logger.Warn("language model not configured; advisory pages will be unavailable", zap.Error(err))
		client, model = nil, ""
	} else {
		logger.Info("language model ready",
			zap.String("provider", os.Getenv("LLM_PROVIDER")),
			zap.String("model", model))
	}

	weatherOpts := []weather.Option{weather.WithLogger(logger.Named("weather"))}
	if base := os.Getenv("OPENWEATHER_BASE_URL"); base != "" {
		weatherOpts = append(weatherOpts, weather.WithBaseURL(base))
	}
	apiKey := os.Getenv("OPENWEATHER_API_KEY")
	if apiKey == "" {
		logger.Info("OPENWEATHER_API_KEY not set; dashboard weather disabled")
	}

	return &runtimeEnv{
		gateway: gateway.New(client, model, logger.Named("gateway")),
		weather: weather.New(apiKey, weatherOpts...),
		catalog: catalog,
		config:  cfgManager,
		logger:  logger,
	}, nil
}

// newController opens a fresh session on the welcome page.
func (r *runtimeEnv) newController() (*controller.Controller, error) {
	return controller.New(session.New(), r.gateway, r.weather,
		controller.WithLogger(r.logger.Named("session")),
		controller.WithCatalog(r.catalog),
	)
}
