package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/config"
)

func (s *Server) routes(cfg *config.ServerConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware(cfg.CORSOrigin))
	r.Use(requestLogger)

	r.Get("/", s.handleRoot)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/stats", s.handleStats)
		r.Post("/stats/refresh", s.handleStatsRefresh)
		r.Get("/position/{address}", s.handlePosition)
		r.Get("/history/{address}", s.handleHistory)
		r.Get("/transactions/recent", s.handleRecentTransactions)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})

	return r
}
