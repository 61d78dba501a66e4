package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/starford/zgraph/internal/apperr"
	"github.com/starford/zgraph/internal/models"
)

// DefaultPatterns selects Markdown and plain-text notes.
var DefaultPatterns = []string{"*.md", "*.txt"}

// FS implements Provider backed by a single local directory. Subdirectories
// are not descended into.
type FS struct {
	root     string // absolute path to the note directory
	patterns []string
}

// NewFS creates a new FS provider rooted at the given directory. A missing
// path or a path that is not a directory yields apperr.ErrInvalidDirectory.
func NewFS(root string, patterns []string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", apperr.ErrInvalidDirectory, root)
		}
		return nil, fmt.Errorf("%w: %s: %v", apperr.ErrInvalidDirectory, root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", apperr.ErrInvalidDirectory, root)
	}
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("storage: invalid pattern %q", p)
		}
	}
	return &FS{root: abs, patterns: patterns}, nil
}

// Root returns the absolute note directory.
func (f *FS) Root() string { return f.root }

// Match reports whether name matches one of the configured patterns.
func (f *FS) Match(name string) bool {
	for _, p := range f.patterns {
		if ok, err := doublestar.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}

// safePath resolves a note name against the root and rejects anything that
// is not a direct child of it.
func (f *FS) safePath(name string) (string, error) {
	if name == "" || filepath.IsAbs(name) {
		return "", fmt.Errorf("storage: invalid note name %q", name)
	}
	cleaned := filepath.Clean(name)
	if cleaned != filepath.Base(cleaned) || cleaned == ".." || cleaned == "." {
		return "", fmt.Errorf("storage: note name escapes directory: %s", name)
	}
	return filepath.Join(f.root, cleaned), nil
}

// List returns metadata for every matching regular file, sorted ascending by name.
func (f *FS) List() ([]models.NoteMetadata, error) {
	entries, err := os.ReadDir(f.root)
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	var out []models.NoteMetadata
	for _, e := range entries {
		if e.IsDir() || !f.Match(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("storage: stat %s: %w", e.Name(), err)
		}
		if !info.Mode().IsRegular() && info.Mode()&os.ModeSymlink == 0 {
			continue
		}
		out = append(out, models.NoteMetadata{
			Name:      e.Name(),
			Path:      filepath.Join(f.root, e.Name()),
			Size:      info.Size(),
			UpdatedAt: info.ModTime(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Read opens, fully reads and closes the named note.
func (f *FS) Read(name string) ([]byte, error) {
	abs, err := f.safePath(name)
	if err != nil {
		return nil, err
	}
	fh, err := os.Open(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("storage: read %s: %w", name, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("storage: read %s: %w", name, err)
	}
	defer fh.Close()

	data, err := io.ReadAll(fh)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", name, err)
	}
	return data, nil
}

// Names is a convenience returning only the sorted filenames of metas.
func Names(metas []models.NoteMetadata) []string {
	out := make([]string, len(metas))
	for i, m := range metas {
		out[i] = m.Name
	}
	return out
}
