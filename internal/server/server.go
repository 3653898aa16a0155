// Package server exposes one advisory session over HTTP. Requests are applied
// to the session one at a time.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ChamsBouzaiene/harvest/internal/controller"
)

// Config controls the HTTP listener.
type Config struct {
	Addr           string
	AllowedOrigins []string
	Release        bool
}

// Server owns the gin engine and the session it serves.
type Server struct {
	mu     sync.Mutex
	ctrl   *controller.Controller
	engine *gin.Engine
	cfg    Config
	logger *zap.Logger
}

// New builds a server around ctrl.
func New(ctrl *controller.Controller, cfg Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Release {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(logger))

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	s := &Server{ctrl: ctrl, engine: engine, cfg: cfg, logger: logger}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/healthcheck", s.handleHealth)

	api := s.engine.Group("/api")
	{
		api.GET("/state", s.handleState)
		api.GET("/forms/:page", s.handleForm)
		api.POST("/actions/:action", s.handleAction)
		api.POST("/submit", s.handleSubmit)
		api.GET("/dashboard", s.handleDashboard)
		api.GET("/history", s.handleHistory)
		api.GET("/history/search", s.handleSearch)
		api.DELETE("/history/:id", s.handleDelete)
		api.GET("/chat", s.handleChat)
	}
}

// Handler returns the underlying http.Handler.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("http server shutting down")
	return srv.Shutdown(shutdownCtx)
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
