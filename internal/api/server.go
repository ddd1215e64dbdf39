// Package api exposes the fwm service over HTTP for the dashboard front end.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"fwm-go/internal/config"
	"fwm-go/internal/fwm"
)

// Server wraps the HTTP server and its router.
type Server struct {
	config     config.ServerConfig
	router     *gin.Engine
	logger     fwm.Logger
	httpServer *http.Server
}

// NewServer builds the router for service. It fails only on unparsable timeouts.
func NewServer(cfg config.ServerConfig, service *fwm.Service, logger fwm.Logger) (*Server, error) {
	readTimeout, writeTimeout, err := cfg.Timeouts()
	if err != nil {
		return nil, fmt.Errorf("server config: %w", err)
	}

	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics := NewMetrics()

	router := gin.New()
	router.Use(Recovery(logger))
	router.Use(RequestID())
	router.Use(Logger(logger))
	router.Use(CORS(cfg.AllowedOrigins))
	router.Use(metrics.Middleware())

	SetupRoutes(router, NewHandler(service, metrics), metrics)

	return &Server{
		config: cfg,
		router: router,
		logger: logger,
		httpServer: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      router,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		},
	}, nil
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("starting API server", "address", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
