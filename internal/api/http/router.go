package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(recoverPanic, accessLog)

	api := r.PathPrefix("/api").Subrouter()

	// Identity session
	api.HandleFunc("/auth/callback", h.SignIn).Methods(http.MethodPost)
	api.HandleFunc("/auth/session", h.withIdentity(h.Session)).Methods(http.MethodGet)
	api.HandleFunc("/auth/signout", h.SignOut).Methods(http.MethodPost)
	api.HandleFunc("/auth/guard", h.Guard).Methods(http.MethodGet)

	// Admin session
	api.HandleFunc("/auth/admin/login", h.AdminLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/admin/logout", h.AdminLogout).Methods(http.MethodPost)
	api.HandleFunc("/auth/admin/verify", h.withAdmin(h.AdminVerify)).Methods(http.MethodGet)

	// Own profile
	api.HandleFunc("/profile", h.withIdentity(h.GetProfile)).Methods(http.MethodGet)
	api.HandleFunc("/profile", h.withIdentity(h.SubmitProfile)).Methods(http.MethodPost)
	api.HandleFunc("/profile/picture", h.withIdentity(h.UploadPicture)).Methods(http.MethodPut)
	api.HandleFunc("/user/update-alumni", h.withIdentity(h.UpdateAlumni)).Methods(http.MethodPut)

	// Directory
	api.HandleFunc("/alumni", h.ListAlumni).Methods(http.MethodGet)
	api.HandleFunc("/alumni", h.withAdmin(h.CreateAlumni)).Methods(http.MethodPost)

	// Moderation
	api.HandleFunc("/admin/profiles", h.withAdmin(h.ListProfiles)).Methods(http.MethodGet)
	api.HandleFunc("/admin/profiles/{id}", h.withAdmin(h.ModerateProfile)).Methods(http.MethodPut)

	api.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Not found"})
	})

	r.HandleFunc("/media/{key}", h.ServeMedia).Methods(http.MethodGet)
	r.PathPrefix("/").Handler(h.pageGate(http.HandlerFunc(h.Page))).Methods(http.MethodGet, http.MethodHead)

	return r
}
