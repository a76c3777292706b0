package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"alumni-directory-backend/internal/domain"
)

const (
	SessionCookieName = "session-token"
	AdminCookieName   = "admin-token"
)

type identityHandlerFunc func(w http.ResponseWriter, r *http.Request, identity *domain.Identity)

type adminHandlerFunc func(w http.ResponseWriter, r *http.Request, admin *domain.Admin)

// withIdentity resolves the identity session and hands it to next. Requests
// without a valid session get 401.
func (h *Handler) withIdentity(next identityHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := h.currentIdentity(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		next(w, r, identity)
	}
}

// withAdmin is withIdentity for the administrator session.
func (h *Handler) withAdmin(next adminHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		admin, err := h.currentAdmin(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		next(w, r, admin)
	}
}

func (h *Handler) currentIdentity(r *http.Request) (*domain.Identity, error) {
	token := tokenFromRequest(r, SessionCookieName)
	if token == "" {
		return nil, fmt.Errorf("%w: no session", domain.ErrUnauthorized)
	}
	return h.sessions.Authenticate(r.Context(), token)
}

func (h *Handler) currentAdmin(r *http.Request) (*domain.Admin, error) {
	token := tokenFromRequest(r, AdminCookieName)
	if token == "" {
		return nil, fmt.Errorf("%w: no admin session", domain.ErrUnauthorized)
	}
	admin, err := h.admins.Verify(r.Context(), token)
	if err != nil {
		return nil, err
	}
	return admin, nil
}

// tokenFromRequest prefers the named cookie and falls back to a bearer token.
func tokenFromRequest(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func (h *Handler) setCookie(w http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
