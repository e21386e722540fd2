package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/config"
	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/services"
)

// Server exposes the read API consumed by the dashboard.
type Server struct {
	httpServer *http.Server
	service    *services.Service
}

func New(cfg *config.ServerConfig, service *services.Service) *Server {
	srv := &Server{service: service}

	srv.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      srv.routes(cfg),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return srv
}

// Start blocks serving requests until Stop is called.
func (s *Server) Start() error {
	log.Info().Msgf("Starting API server on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api server: %w", err)
	}
	return nil
}

// Stop drains in-flight requests and shuts the listener down.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
