package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/landmark-finder/internal/config"
	"github.com/fleveque/landmark-finder/internal/handler"
	"github.com/fleveque/landmark-finder/internal/middleware"
)

// Server owns the Gin engine and the net/http server in front of it.
type Server struct {
	addr   string
	router *gin.Engine
	http   *http.Server
	logger *zap.Logger
}

// New builds the engine, registers templates and routes, and sizes the
// server timeouts from the outbound HTTP timeout.
func New(cfg *config.Config, deps Deps, logger *zap.Logger) (*Server, error) {
	if cfg.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(logger),
	)

	tmpl, err := handler.Templates()
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	RegisterRoutes(router, cfg, deps, logger)

	addr := cfg.Server.Address()
	return &Server{
		addr:   addr,
		router: router,
		logger: logger,
		http: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout: writeTimeout(cfg),
			IdleTimeout:  60 * time.Second,
		},
	}, nil
}

// writeTimeout covers the slowest request: every configured LLM provider
// timing out in turn, then one image search, each bounded by http.timeout.
func writeTimeout(cfg *config.Config) time.Duration {
	calls := len(cfg.LLM.ProviderOrder) + 1
	if calls < 2 {
		calls = 2
	}
	return time.Duration(calls)*cfg.HTTP.Timeout + 10*time.Second
}

// Start listens until Shutdown is called. It returns nil on a clean stop.
func (s *Server) Start() error {
	s.logger.Info("starting server", zap.String("address", s.addr))
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return fmt.Errorf("server listen: %w", err)
}

// Shutdown waits for in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")
	return s.http.Shutdown(ctx)
}

// Router exposes the engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
