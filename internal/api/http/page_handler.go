package http

import (
	"fmt"
	"html"
	"net/http"

	"alumni-directory-backend/internal/gate"
)

// pageGate redirects page requests the routing gate does not allow.
func (h *Handler) pageGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d := h.decide(r, r.URL.Path)
		if d.Outcome == gate.Redirect {
			http.Redirect(w, r, d.RedirectTo, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Page is the placeholder for the rendered site.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "<!doctype html><html><head><title>Alumni Directory</title></head><body data-path=%q></body></html>\n",
		html.EscapeString(r.URL.Path))
}
