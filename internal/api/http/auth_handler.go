package http

import (
	"fmt"
	"net/http"

	"alumni-directory-backend/internal/domain"
	"alumni-directory-backend/internal/gate"
	"alumni-directory-backend/internal/logger"
)

type signInRequest struct {
	IDToken string `json:"idToken"`
}

type adminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type adminView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type adminResponse struct {
	Admin adminView `json:"admin"`
}

type sessionUser struct {
	ID            string               `json:"id"`
	Email         string               `json:"email"`
	Name          *string              `json:"name"`
	Image         *string              `json:"image"`
	Alumni        *domain.Profile      `json:"alumni,omitempty"`
	ProfileStatus domain.ProfileStatus `json:"profileStatus"`
}

type sessionResponse struct {
	User sessionUser `json:"user"`
}

func newSessionResponse(s *domain.IdentitySession) sessionResponse {
	u := sessionUser{
		Alumni:        s.Profile,
		ProfileStatus: s.ProfileStatus,
	}
	if s.User != nil {
		u.ID = s.User.ID
		u.Email = s.User.Email
		u.Name = s.User.Name
		u.Image = s.User.Picture
	}
	return sessionResponse{User: u}
}

// SignIn exchanges an identity provider ID token for a session cookie.
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.IDToken == "" {
		writeError(w, r, fmt.Errorf("%w: idToken is required", domain.ErrInvalidArgument))
		return
	}

	session, token, err := h.sessions.SignIn(r.Context(), req.IDToken)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.setCookie(w, SessionCookieName, token, h.cookies.SessionTTL)
	writeJSON(w, http.StatusOK, newSessionResponse(session))
}

func (h *Handler) Session(w http.ResponseWriter, r *http.Request, identity *domain.Identity) {
	session, err := h.sessions.Enrich(r.Context(), identity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSessionResponse(session))
}

func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	h.clearCookie(w, SessionCookieName)
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// Guard reports the gate decision for ?path= so a rendered page can re-check
// access after the edge middleware has run.
func (h *Handler) Guard(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeError(w, r, fmt.Errorf("%w: path is required", domain.ErrInvalidArgument))
		return
	}
	writeJSON(w, http.StatusOK, h.decide(r, path))
}

func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, r, fmt.Errorf("%w: username and password are required", domain.ErrInvalidArgument))
		return
	}

	admin, token, err := h.admins.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.setCookie(w, AdminCookieName, token, h.cookies.AdminTTL)
	writeJSON(w, http.StatusOK, adminResponse{Admin: adminView{ID: admin.ID, Username: admin.Username}})
}

func (h *Handler) AdminLogout(w http.ResponseWriter, r *http.Request) {
	h.clearCookie(w, AdminCookieName)
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (h *Handler) AdminVerify(w http.ResponseWriter, r *http.Request, admin *domain.Admin) {
	writeJSON(w, http.StatusOK, adminResponse{Admin: adminView{ID: admin.ID, Username: admin.Username}})
}

// decide runs the routing gate for path using whatever sessions r carries.
// Failures to read the profile status are treated as having no session.
func (h *Handler) decide(r *http.Request, path string) gate.Decision {
	var status domain.ProfileStatus
	if gate.Classify(path) == gate.SecurityProfile {
		status = h.profileStatus(r)
	}

	d := gate.Decide(path, status)
	if d.Outcome == gate.RequireAdmin || gate.IsAdminLogin(path) {
		_, err := h.currentAdmin(r)
		d = gate.DecideAdmin(path, err == nil)
	}
	return d
}

func (h *Handler) profileStatus(r *http.Request) domain.ProfileStatus {
	identity, err := h.currentIdentity(r)
	if err != nil {
		return ""
	}
	session, err := h.sessions.Enrich(r.Context(), identity)
	if err != nil {
		logger.WarnContext(r.Context(), "Failed to enrich session for gate", "identityID", identity.ID, "error", err)
		return ""
	}
	return session.ProfileStatus
}
