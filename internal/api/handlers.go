package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/le-stagiaire-ag2r/casper-yield-indexer/pkg"
)

const (
	defaultHistoryLimit = 50
	serviceName         = "casper-yield-indexer"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": serviceName,
		"version": "1.0.0",
		"status":  "running",
		"endpoints": []string{
			"GET /api/health",
			"GET /api/stats",
			"POST /api/stats/refresh",
			"GET /api/position/{address}",
			"GET /api/history/{address}",
			"GET /api/transactions/recent",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   serviceName,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.LatestStats(r.Context())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleStatsRefresh forces a recompute from the ledger and returns the fresh
// snapshot. Useful when the dashboard wants numbers ahead of the next event.
func (s *Server) handleStatsRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.service.RecomputeStats(r.Context()); err != nil {
		writeInternalError(w, r, err)
		return
	}
	stats, err := s.service.LatestStats(r.Context())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"stats":   stats,
	})
}

func (s *Server) handlePosition(w http.ResponseWriter, r *http.Request) {
	// Addresses are opaque: anything unknown gets the zero default, never an
	// error. Validation failures are only worth a log line.
	address := chi.URLParam(r, "address")
	if err := pkg.ValidateCasperAddress(address); err != nil {
		log.Ctx(r.Context()).Debug().Str("address", address).Msg("Querying non-standard address")
	}

	position, err := s.service.GetPosition(r.Context(), address)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, position)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	if err := pkg.ValidateCasperAddress(address); err != nil {
		log.Ctx(r.Context()).Debug().Str("address", address).Msg("Querying non-standard address")
	}

	txs, err := s.service.GetUserTransactions(r.Context(), address, parseLimit(r))
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleRecentTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.service.GetRecentTransactions(r.Context(), parseLimit(r))
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

// parseLimit reads the limit query parameter, falling back to the default on
// anything non-positive or unparseable.
func parseLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultHistoryLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return defaultHistoryLimit
	}
	return limit
}
