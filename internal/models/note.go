// Package models defines the domain types shared by storage, graph and export.
package models

import "time"

// Note is one Zettel file as seen by the graph builder.
type Note struct {
	Filename string `json:"filename"`
	Key      string `json:"key"`
	Label    string `json:"label"`
	Path     string `json:"path"`
	Checksum string `json:"checksum,omitempty"`
	// Skipped is set when the content could not be decoded; the note is still a node.
	Skipped bool `json:"skipped,omitempty"`
}

// NoteMetadata is a lightweight representation returned by directory listings.
type NoteMetadata struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Link represents a directed, resolved reference between two notes.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
}
