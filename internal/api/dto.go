package api

import (
	"time"

	"github.com/starford/zgraph/internal/diag"
	"github.com/starford/zgraph/internal/graph"
	"github.com/starford/zgraph/internal/noteservice"
)

// StatsResponse wraps the summary statistics of the current snapshot.
type StatsResponse struct {
	BuildID string      `json:"build_id" example:"0b0f7c9e-7d2c-4c8b-9a55-1f0e2d3c4b5a" validate:"required"`
	BuiltAt time.Time   `json:"built_at"`
	Stats   graph.Stats `json:"stats" validate:"required"`
}

// UnconnectedResponse lists notes without any reference.
type UnconnectedResponse struct {
	Notes []string `json:"notes" validate:"required"`
}

// ComponentsResponse lists connected components, largest first.
type ComponentsResponse struct {
	Components [][]string `json:"components" validate:"required"`
}

// GraphNode is a node in the reference graph.
type GraphNode struct {
	ID       string `json:"id" example:"202002251025_first.md" validate:"required"`
	Label    string `json:"label" example:"202002251025 first"`
	Filename string `json:"filename" validate:"required"`
	Skipped  bool   `json:"skipped,omitempty"`
}

// GraphLink is an edge in the reference graph.
type GraphLink struct {
	Source string `json:"source" validate:"required"`
	Target string `json:"target" validate:"required"`
}

// GraphResponse wraps the reference graph.
type GraphResponse struct {
	BuildID string      `json:"build_id" validate:"required"`
	Nodes   []GraphNode `json:"nodes" validate:"required"`
	Links   []GraphLink `json:"links" validate:"required"`
}

// Diagnostic is one build diagnostic with its rendered message.
type Diagnostic struct {
	Kind       diag.Kind `json:"kind" example:"unresolved" validate:"required"`
	Source     string    `json:"source" validate:"required"`
	Token      string    `json:"token,omitempty"`
	Candidates []string  `json:"candidates,omitempty"`
	Message    string    `json:"message" validate:"required"`
}

// DiagnosticsResponse wraps the diagnostics of the current snapshot.
type DiagnosticsResponse struct {
	BuildID     string       `json:"build_id" validate:"required"`
	Diagnostics []Diagnostic `json:"diagnostics" validate:"required"`
}

// NoteReferences is the response for a single note's neighbours.
type NoteReferences = noteservice.NoteReferences

// RebuildResponse is returned by POST /rebuild.
type RebuildResponse struct {
	BuildID   string      `json:"build_id" validate:"required"`
	Published bool        `json:"published"`
	Stats     graph.Stats `json:"stats" validate:"required"`
}

func graphResponse(snap *noteservice.Snapshot) GraphResponse {
	resp := GraphResponse{
		BuildID: snap.BuildID,
		Nodes:   make([]GraphNode, 0, snap.Graph.NodeCount()),
		Links:   make([]GraphLink, 0, snap.Graph.EdgeCount()),
	}
	for _, n := range snap.Graph.Nodes() {
		resp.Nodes = append(resp.Nodes, GraphNode{ID: n.Key, Label: n.Label, Filename: n.Filename, Skipped: n.Skipped})
	}
	for _, e := range snap.Graph.Edges() {
		resp.Links = append(resp.Links, GraphLink{Source: e.Source, Target: e.Target})
	}
	return resp
}

func diagnosticsResponse(snap *noteservice.Snapshot) DiagnosticsResponse {
	resp := DiagnosticsResponse{
		BuildID:     snap.BuildID,
		Diagnostics: make([]Diagnostic, 0, len(snap.Diagnostics)),
	}
	for _, d := range snap.Diagnostics {
		resp.Diagnostics = append(resp.Diagnostics, Diagnostic{
			Kind:       d.Kind,
			Source:     d.Source,
			Token:      d.Token,
			Candidates: d.Candidates,
			Message:    d.Message(),
		})
	}
	return resp
}
