// Package report writes graph statistics in their exact plain-text formats.
package report

import (
	"fmt"
	"io"

	"github.com/starford/zgraph/internal/graph"
)

// WriteStats prints the four summary lines of s.
func WriteStats(w io.Writer, s graph.Stats) error {
	_, err := fmt.Fprintf(w,
		"%d Zettel\n%d references between Zettel\n%d Zettel with no references\n%d connected components\n",
		s.Nodes, s.Edges, len(s.Isolated), s.Components)
	return err
}

// WriteUnconnected prints one isolated note per line.
func WriteUnconnected(w io.Writer, isolated []string) error {
	for _, name := range isolated {
		if _, err := fmt.Fprintln(w, name); err != nil {
			return err
		}
	}
	return nil
}

// WriteComponents prints every component as a numbered block followed by a
// blank line.
func WriteComponents(w io.Writer, components [][]string) error {
	for i, members := range components {
		if _, err := fmt.Fprintf(w, "# Component %d\n", i+1); err != nil {
			return err
		}
		for _, m := range members {
			if _, err := fmt.Fprintln(w, m); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
