package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/starford/zgraph/internal/apperr"
	"github.com/starford/zgraph/internal/noteservice"
)

// GraphService is the part of noteservice.Service the handlers use.
type GraphService interface {
	Snapshot() *noteservice.Snapshot
	Rebuild(ctx context.Context, changed []string) (*noteservice.Snapshot, bool, error)
}

// Handler holds API route handlers.
type Handler struct {
	svc GraphService
}

// NewHandler creates a new Handler.
func NewHandler(svc GraphService) *Handler {
	return &Handler{svc: svc}
}

// snapshot writes 503 and returns nil when no graph has been built yet.
func (h *Handler) snapshot(w http.ResponseWriter) *noteservice.Snapshot {
	snap := h.svc.Snapshot()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "graph not built yet")
	}
	return snap
}

// Stats handles GET /stats.
//
//	@Summary		Summary statistics of the reference graph
//	@Tags			graph
//	@Produce		json
//	@Success		200	{object}	StatsResponse
//	@Failure		503	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/stats [get]
func (h *Handler) Stats(w http.ResponseWriter, _ *http.Request) {
	snap := h.snapshot(w)
	if snap == nil {
		return
	}
	writeJSON(w, http.StatusOK, StatsResponse{BuildID: snap.BuildID, BuiltAt: snap.BuiltAt, Stats: snap.Stats})
}

// Unconnected handles GET /unconnected.
//
//	@Summary		Notes without incoming or outgoing references
//	@Tags			graph
//	@Produce		json
//	@Success		200	{object}	UnconnectedResponse
//	@Security		BearerAuth
//	@Router			/unconnected [get]
func (h *Handler) Unconnected(w http.ResponseWriter, _ *http.Request) {
	snap := h.snapshot(w)
	if snap == nil {
		return
	}
	writeJSON(w, http.StatusOK, UnconnectedResponse{Notes: snap.Stats.Isolated})
}

// Components handles GET /components.
//
//	@Summary		Connected components, largest first
//	@Tags			graph
//	@Produce		json
//	@Success		200	{object}	ComponentsResponse
//	@Security		BearerAuth
//	@Router			/components [get]
func (h *Handler) Components(w http.ResponseWriter, _ *http.Request) {
	snap := h.snapshot(w)
	if snap == nil {
		return
	}
	writeJSON(w, http.StatusOK, ComponentsResponse{Components: snap.Components})
}

// Graph handles GET /graph.
//
//	@Summary		Get the reference graph
//	@Tags			graph
//	@Produce		json
//	@Success		200	{object}	GraphResponse
//	@Security		BearerAuth
//	@Router			/graph [get]
func (h *Handler) Graph(w http.ResponseWriter, _ *http.Request) {
	snap := h.snapshot(w)
	if snap == nil {
		return
	}
	writeJSON(w, http.StatusOK, graphResponse(snap))
}

// Diagnostics handles GET /diagnostics.
//
//	@Summary		Diagnostics of the last build
//	@Tags			graph
//	@Produce		json
//	@Success		200	{object}	DiagnosticsResponse
//	@Security		BearerAuth
//	@Router			/diagnostics [get]
func (h *Handler) Diagnostics(w http.ResponseWriter, _ *http.Request) {
	snap := h.snapshot(w)
	if snap == nil {
		return
	}
	writeJSON(w, http.StatusOK, diagnosticsResponse(snap))
}

// References handles GET /notes/{name}/references.
//
//	@Summary		Outgoing and incoming references of one note
//	@Tags			notes
//	@Produce		json
//	@Param			name	path		string	true	"Note key or filename"
//	@Success		200		{object}	NoteReferences
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{name}/references [get]
func (h *Handler) References(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}
	snap := h.snapshot(w)
	if snap == nil {
		return
	}
	refs, err := snap.References(name)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
		} else {
			slog.Error("references failed", slog.String("note", name), slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, refs)
}

// Rebuild handles POST /rebuild.
//
//	@Summary		Rebuild the graph from the note directory
//	@Tags			graph
//	@Produce		json
//	@Success		200	{object}	RebuildResponse
//	@Security		BearerAuth
//	@Router			/rebuild [post]
func (h *Handler) Rebuild(w http.ResponseWriter, r *http.Request) {
	snap, published, err := h.svc.Rebuild(r.Context(), nil)
	if err != nil {
		slog.Error("rebuild failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, RebuildResponse{BuildID: snap.BuildID, Published: published, Stats: snap.Stats})
}
