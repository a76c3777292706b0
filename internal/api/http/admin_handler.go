package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"alumni-directory-backend/internal/domain"
)

type moderateRequest struct {
	Action        string `json:"action"`
	Reason        string `json:"reason"`
	AdminUsername string `json:"adminUsername"`
}

type moderateResponse struct {
	Success bool            `json:"success"`
	Profile *domain.Profile `json:"profile"`
}

type profilesResponse struct {
	Profiles []domain.ProfileWithOwner `json:"profiles"`
}

// ListProfiles is the review queue. Without ?status= it lists pending profiles.
func (h *Handler) ListProfiles(w http.ResponseWriter, r *http.Request, admin *domain.Admin) {
	status := domain.ProfileStatusPending
	if raw := r.URL.Query().Get("status"); raw != "" {
		s, ok := domain.ParseProfileStatus(raw)
		if !ok {
			writeError(w, r, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidArgument, raw))
			return
		}
		status = s
	}

	profiles, err := h.admins.ListProfiles(r.Context(), status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profilesResponse{Profiles: profiles})
}

// ModerateProfile applies a moderation action on behalf of the signed-in
// admin. The actor always comes from the admin session.
func (h *Handler) ModerateProfile(w http.ResponseWriter, r *http.Request, admin *domain.Admin) {
	var req moderateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.AdminUsername != "" && !strings.EqualFold(req.AdminUsername, admin.Username) {
		writeError(w, r, fmt.Errorf("%w: adminUsername does not match the signed-in admin", domain.ErrForbidden))
		return
	}

	id := mux.Vars(r)["id"]
	action := domain.ModerationAction(strings.ToLower(strings.TrimSpace(req.Action)))
	p, err := h.moderation.Apply(r.Context(), id, action, admin.Username, req.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, moderateResponse{Success: true, Profile: p})
}
