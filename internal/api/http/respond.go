package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"alumni-directory-backend/internal/domain"
	"alumni-directory-backend/internal/logger"
)

const maxJSONBody = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

type successResponse struct {
	Success bool `json:"success"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}

// writeError maps the domain error taxonomy onto status codes. Anything
// outside the taxonomy is logged and reported as a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: detail(err, domain.ErrForbidden, "Forbidden")})
	case errors.Is(err, domain.ErrNotFound):
		msg := "Not found"
		if d := detail(err, domain.ErrNotFound, ""); d != "" {
			msg = d + " not found"
		}
		writeJSON(w, http.StatusNotFound, errorResponse{Error: msg})
	case errors.Is(err, domain.ErrInvalidArgument):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: detail(err, domain.ErrInvalidArgument, "Invalid request")})
	case errors.Is(err, domain.ErrConflict):
		writeJSON(w, http.StatusConflict, errorResponse{Error: detail(err, domain.ErrConflict, "Conflict")})
	default:
		logger.ErrorContext(r.Context(), "Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
	}
}

// detail returns the text that follows the sentinel in a "%w: detail" chain.
func detail(err, sentinel error, fallback string) string {
	msg := err.Error()
	prefix := sentinel.Error() + ": "
	i := strings.Index(msg, prefix)
	if i < 0 {
		return fallback
	}
	d := strings.TrimSpace(msg[i+len(prefix):])
	if d == "" {
		return fallback
	}
	return d
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrInvalidArgument)
	}
	return nil
}
