package report

import (
	"bytes"
	"testing"

	"github.com/starford/zgraph/internal/graph"
)

func TestWriteStats(t *testing.T) {
	var buf bytes.Buffer
	err := WriteStats(&buf, graph.Stats{Nodes: 7, Edges: 6, Isolated: []string{"a", "b"}, Components: 4})
	if err != nil {
		t.Fatalf("WriteStats: %v", err)
	}
	want := "7 Zettel\n6 references between Zettel\n2 Zettel with no references\n4 connected components\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestWriteUnconnected(t *testing.T) {
	var buf bytes.Buffer
	_ = WriteUnconnected(&buf, []string{"C"})
	if buf.String() != "C\n" {
		t.Errorf("output = %q", buf.String())
	}

	buf.Reset()
	_ = WriteUnconnected(&buf, nil)
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestWriteComponents(t *testing.T) {
	var buf bytes.Buffer
	_ = WriteComponents(&buf, [][]string{{"A", "B"}, {"C"}})
	want := "# Component 1\nA\nB\n\n# Component 2\nC\n\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}
