package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/elee1766/bookdesk/src/desk"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse acknowledges a request that returns no data.
type StatusResponse struct {
	Status string `json:"status"`
}

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil && logger != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

// writeError writes an error response with the given status code.
func writeError(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	writeJSON(w, status, ErrorResponse{Error: message}, logger)
}

// handleError maps domain errors to their HTTP status. Anything else is logged and
// answered with a generic 500.
func handleError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	var derr *desk.Error
	if errors.As(err, &derr) {
		writeError(w, derr.Code.HTTPStatus(), derr.Message, logger)
		return
	}
	logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, "internal server error", logger)
}
