package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, errorResponse{Error: message})
}

// writeInternalError logs the underlying cause and returns a generic body so
// internals never leak to clients.
func writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	log.Ctx(r.Context()).Error().Err(err).
		Str("path", r.URL.Path).
		Msg("Request failed")
	writeError(w, http.StatusInternalServerError, "internal server error")
}
