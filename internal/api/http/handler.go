// Package http exposes the directory over JSON endpoints and guards page
// routes with the routing gate.
package http

import (
	"time"

	"alumni-directory-backend/internal/service"
)

// Services are the application services the handlers call into.
type Services struct {
	Sessions   service.SessionService
	Profiles   service.ProfileService
	Moderation service.ModerationEngine
	Admins     service.AdminService
	Pictures   service.PictureService
}

// CookieConfig controls the session cookies issued on sign-in.
type CookieConfig struct {
	Secure     bool
	SessionTTL time.Duration
	AdminTTL   time.Duration
}

type Handler struct {
	sessions   service.SessionService
	profiles   service.ProfileService
	moderation service.ModerationEngine
	admins     service.AdminService
	pictures   service.PictureService
	cookies    CookieConfig
}

func NewHandler(svcs Services, cookies CookieConfig) *Handler {
	return &Handler{
		sessions:   svcs.Sessions,
		profiles:   svcs.Profiles,
		moderation: svcs.Moderation,
		admins:     svcs.Admins,
		pictures:   svcs.Pictures,
		cookies:    cookies,
	}
}
