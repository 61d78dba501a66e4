// Package diag models recoverable, per-note anomalies found while building a
// reference graph, and writes them in their exact user-facing formats.
package diag

import (
	"fmt"
	"io"
	"strings"
)

// Kind classifies a diagnostic.
type Kind string

const (
	KindUnresolved   Kind = "unresolved"
	KindAmbiguous    Kind = "ambiguous"
	KindSkipped      Kind = "skipped"
	KindDuplicateKey Kind = "duplicate_key"
)

// Diagnostic is a single recovered problem. Source is always the filename of
// the note being processed.
type Diagnostic struct {
	Kind       Kind     `json:"kind"`
	Source     string   `json:"source"`
	Token      string   `json:"token,omitempty"`
	Candidates []string `json:"candidates,omitempty"`
	Err        error    `json:"-"`
}

// Unresolved reports a reference that matched no known note.
func Unresolved(token, source string) Diagnostic {
	return Diagnostic{Kind: KindUnresolved, Token: token, Source: source}
}

// Ambiguous reports a reference matching several notes. candidates must be
// sorted ascending.
func Ambiguous(token, source string, candidates []string) Diagnostic {
	return Diagnostic{Kind: KindAmbiguous, Token: token, Source: source, Candidates: candidates}
}

// Skipped reports a note whose content could not be decoded.
func Skipped(source string, err error) Diagnostic {
	return Diagnostic{Kind: KindSkipped, Source: source, Err: err}
}

// DuplicateKey reports two notes deriving the same identity key.
func DuplicateKey(key, source string) Diagnostic {
	return Diagnostic{Kind: KindDuplicateKey, Token: key, Source: source}
}

// Message renders the diagnostic in its exact, order-sensitive text form.
func (d Diagnostic) Message() string {
	switch d.Kind {
	case KindUnresolved:
		return fmt.Sprintf("No matching Zettel for reference \"%s\" in %s", d.Token, d.Source)
	case KindAmbiguous:
		return fmt.Sprintf("Skipping non-unique reference \"%s\" in %s. Candidates: %s",
			d.Token, d.Source, strings.Join(d.Candidates, ", "))
	case KindSkipped:
		return fmt.Sprintf("Skipping %s: %v", d.Source, d.Err)
	case KindDuplicateKey:
		return fmt.Sprintf("Duplicate key \"%s\" for %s, falling back to filename", d.Token, d.Source)
	default:
		return fmt.Sprintf("%s: %s", d.Kind, d.Source)
	}
}

func (d Diagnostic) String() string { return d.Message() }

// Count tallies diagnostics by kind.
func Count(diags []Diagnostic) map[Kind]int {
	out := make(map[Kind]int, 4)
	for _, d := range diags {
		out[d.Kind]++
	}
	return out
}

// Reporter writes diagnostics to an error stream unless quiet.
type Reporter struct {
	w     io.Writer
	quiet bool
}

// NewReporter creates a Reporter. A nil writer behaves like quiet.
func NewReporter(w io.Writer, quiet bool) *Reporter {
	return &Reporter{w: w, quiet: quiet || w == nil}
}

// Report writes one line per diagnostic, in order.
func (r *Reporter) Report(diags []Diagnostic) error {
	if r.quiet {
		return nil
	}
	for _, d := range diags {
		if _, err := fmt.Fprintln(r.w, d.Message()); err != nil {
			return fmt.Errorf("diag: write: %w", err)
		}
	}
	return nil
}
