package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all graph routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc GraphService, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/stats", h.Stats)
	r.Get("/unconnected", h.Unconnected)
	r.Get("/components", h.Components)
	r.Get("/graph", h.Graph)
	r.Get("/diagnostics", h.Diagnostics)
	r.Get("/notes/{name}/references", h.References)
	r.Post("/rebuild", h.Rebuild)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
