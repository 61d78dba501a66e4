// Package storage defines the read-only note directory abstraction.
package storage

import "github.com/starford/zgraph/internal/models"

// Provider is the interface for note directory access.
type Provider interface {
	// Root returns the absolute path of the note directory.
	Root() string
	// List returns metadata for every eligible note file, sorted by name.
	List() ([]models.NoteMetadata, error)
	// Read returns the raw bytes of the note called name.
	Read(name string) ([]byte, error)
	// Match reports whether name is an eligible note filename.
	Match(name string) bool
}
