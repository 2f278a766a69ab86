// Helpers for writing JSON responses from the /api routes.

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/animedom/animedom/internal/catalog"
	"github.com/animedom/animedom/internal/store"
)

// errorResponse is the body of every failed /api request.
type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// RespondWithJSON writes payload as JSON with the given status code.
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		code = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Error: "Failed to marshal response"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(body)
}

// RespondWithError writes an errorResponse carrying message.
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, errorResponse{Error: message})
}

// writeError maps a catalog write failure onto a status code.
// Unexpected errors are logged and hidden from the client.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var verr *catalog.ValidationError
	switch {
	case errors.As(err, &verr):
		RespondWithJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: verr.Message, Field: verr.Field})
	case errors.Is(err, store.ErrConflict):
		RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrNotFound):
		RespondWithError(w, http.StatusNotFound, "Not found")
	default:
		s.logger.Error("Write failed", zap.Error(err))
		RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
