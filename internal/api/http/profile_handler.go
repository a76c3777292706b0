package http

import (
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"alumni-directory-backend/internal/domain"
	"alumni-directory-backend/internal/logger"
)

type profileResponse struct {
	Alumni *domain.Profile `json:"alumni"`
}

type submitResponse struct {
	Success bool            `json:"success"`
	Alumni  *domain.Profile `json:"alumni"`
}

type updateResponse struct {
	Message string          `json:"message"`
	Alumni  *domain.Profile `json:"alumni"`
}

type pictureResponse struct {
	URL string `json:"url"`
}

// GetProfile returns the caller's own profile, or null when there is none.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request, identity *domain.Identity) {
	p, err := h.profiles.Get(r.Context(), identity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{Alumni: p})
}

// SubmitProfile creates or resubmits the caller's profile for review.
func (h *Handler) SubmitProfile(w http.ResponseWriter, r *http.Request, identity *domain.Identity) {
	var patch domain.ProfilePatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.profiles.Submit(r.Context(), identity, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, submitResponse{Success: true, Alumni: p})
}

// UpdateAlumni edits fields without sending the profile back to review.
func (h *Handler) UpdateAlumni(w http.ResponseWriter, r *http.Request, identity *domain.Identity) {
	var patch domain.ProfilePatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.profiles.UpdateFields(r.Context(), identity, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updateResponse{Message: "Alumni information updated successfully", Alumni: p})
}

// UploadPicture stores the raw request body as the caller's picture and
// returns its public URL.
func (h *Handler) UploadPicture(w http.ResponseWriter, r *http.Request, identity *domain.Identity) {
	defer r.Body.Close()
	size := r.ContentLength
	if size < 0 {
		size = 0
	}
	url, err := h.pictures.Upload(r.Context(), identity, r.Header.Get("Content-Type"), size, r.Body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pictureResponse{URL: url})
}

func (h *Handler) ServeMedia(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	file, contentType, err := h.pictures.Open(r.Context(), key)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, file); err != nil {
		logger.Warn("Failed to stream media", "key", key, "error", err)
	}
}
