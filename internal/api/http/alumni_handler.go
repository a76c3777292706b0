package http

import (
	"fmt"
	"net/http"

	"alumni-directory-backend/internal/domain"
)

// ListAlumni returns the directory as a bare array, optionally narrowed by ?status=.
func (h *Handler) ListAlumni(w http.ResponseWriter, r *http.Request) {
	var status domain.ProfileStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s, ok := domain.ParseProfileStatus(raw)
		if !ok {
			writeError(w, r, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidArgument, raw))
			return
		}
		status = s
	}

	profiles, err := h.profiles.ListDirectory(r.Context(), status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}

// CreateAlumni adds a profile directly, bypassing review.
func (h *Handler) CreateAlumni(w http.ResponseWriter, r *http.Request, admin *domain.Admin) {
	var in domain.NewProfileInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.profiles.CreateDirect(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}
