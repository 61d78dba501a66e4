package index

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/starford/zgraph/internal/diag"
	"github.com/starford/zgraph/internal/graph"
	"github.com/starford/zgraph/internal/models"
)

// Document is the JSON form of a snapshot. It carries the same rows as the
// SQLite tables.
type Document struct {
	Root        string               `json:"root"`
	Digest      string               `json:"digest"`
	Stats       graph.Stats          `json:"stats"`
	Notes       []models.Note        `json:"notes"`
	Links       []models.Link        `json:"links"`
	Components  [][]string           `json:"components"`
	Diagnostics []DocumentDiagnostic `json:"diagnostics"`
}

// DocumentDiagnostic is one diagnostic with its rendered message.
type DocumentDiagnostic struct {
	Kind    diag.Kind `json:"kind"`
	Source  string    `json:"source"`
	Token   string    `json:"token,omitempty"`
	Message string    `json:"message"`
}

// NewDocument converts a build result into its exported form.
func NewDocument(root string, res *graph.Result) Document {
	doc := Document{
		Root:        root,
		Digest:      res.Digest,
		Stats:       graph.Analyze(res.Graph),
		Notes:       res.Graph.Nodes(),
		Links:       res.Graph.Edges(),
		Components:  res.Graph.Components(),
		Diagnostics: make([]DocumentDiagnostic, 0, len(res.Diagnostics)),
	}
	if doc.Links == nil {
		doc.Links = []models.Link{}
	}
	for _, d := range res.Diagnostics {
		doc.Diagnostics = append(doc.Diagnostics, DocumentDiagnostic{
			Kind:    d.Kind,
			Source:  d.Source,
			Token:   d.Token,
			Message: d.Message(),
		})
	}
	return doc
}

// WriteJSON writes the snapshot of res as indented JSON.
func WriteJSON(w io.Writer, root string, res *graph.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(root, res)); err != nil {
		return fmt.Errorf("index: encode json: %w", err)
	}
	return nil
}
