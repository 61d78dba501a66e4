package graph

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/starford/zgraph/internal/models"
)

func TestAnalyze_ThreeNotes(t *testing.T) {
	g := Assemble(notes("A", "B", "C"), []models.Link{link("A", "B")}, false)

	got := Analyze(g)
	want := Stats{Nodes: 3, Edges: 1, Isolated: []string{"C"}, Components: 2}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][]string{{"A", "B"}, {"C"}}, g.Components()); diff != "" {
		t.Errorf("components mismatch (-want +got):\n%s", diff)
	}
}

func TestComponents_DirectionIgnored(t *testing.T) {
	// A->B<-C and D->E: direction must not split components.
	g := Assemble(notes("A", "B", "C", "D", "E"), []models.Link{
		link("A", "B"), link("C", "B"), link("D", "E"),
	}, false)

	want := [][]string{{"A", "B", "C"}, {"D", "E"}}
	if diff := cmp.Diff(want, g.Components()); diff != "" {
		t.Errorf("components mismatch (-want +got):\n%s", diff)
	}
}

func TestComponents_TiesByFirstMember(t *testing.T) {
	g := Assemble(notes("z1", "z2", "a1", "a2", "m"), []models.Link{
		link("z2", "z1"), link("a2", "a1"),
	}, false)

	want := [][]string{{"a1", "a2"}, {"z1", "z2"}, {"m"}}
	if diff := cmp.Diff(want, g.Components()); diff != "" {
		t.Errorf("components mismatch (-want +got):\n%s", diff)
	}
}

func TestComponents_Partition(t *testing.T) {
	keys := []string{"n0", "n1", "n2", "n3", "n4", "n5", "n6", "n7", "n8", "n9"}
	edges := []models.Link{
		link("n0", "n1"), link("n1", "n2"), link("n3", "n4"),
		link("n5", "n3"), link("n9", "n0"), link("n2", "n9"),
	}
	g := Assemble(notes(keys...), edges, false)

	seen := map[string]int{}
	total := 0
	for _, c := range g.Components() {
		total += len(c)
		for _, k := range c {
			seen[k]++
		}
	}
	if total != g.NodeCount() {
		t.Errorf("component members = %d, want %d", total, g.NodeCount())
	}
	for _, k := range keys {
		if seen[k] != 1 {
			t.Errorf("%s appears %d times", k, seen[k])
		}
	}
	if Analyze(g).Components != len(g.Components()) {
		t.Error("component count disagrees with partition")
	}
}

func TestIsolated_DisjointFromEdges(t *testing.T) {
	g := Assemble(notes("c", "b", "a", "d"), []models.Link{link("b", "d")}, false)

	iso := g.Isolated()
	if diff := cmp.Diff([]string{"a", "c"}, iso); diff != "" {
		t.Errorf("isolated mismatch (-want +got):\n%s", diff)
	}
	touched := map[string]bool{}
	for _, e := range g.Edges() {
		touched[e.Source], touched[e.Target] = true, true
	}
	for _, k := range iso {
		if touched[k] {
			t.Errorf("isolated node %s has an edge", k)
		}
	}
}

func TestAnalyze_Empty(t *testing.T) {
	g := Assemble(nil, nil, false)
	got := Analyze(g)
	if got.Nodes != 0 || got.Edges != 0 || got.Components != 0 || len(got.Isolated) != 0 {
		t.Errorf("stats = %+v", got)
	}
}

func TestComponentOf(t *testing.T) {
	g := Assemble(notes("A", "B", "C"), []models.Link{link("B", "A")}, false)
	if diff := cmp.Diff([]string{"A", "B"}, g.ComponentOf("B")); diff != "" {
		t.Errorf("component mismatch (-want +got):\n%s", diff)
	}
	if g.ComponentOf("missing") != nil {
		t.Error("expected nil for unknown key")
	}
}

func TestReports_UseFilenames(t *testing.T) {
	nodes := []models.Note{
		{Filename: "202001011200_alpha.md", Key: "202001011200"},
		{Filename: "202001011201_beta.md", Key: "202001011201"},
		{Filename: "notes.md", Key: "notes.md"},
	}
	g := Assemble(nodes, []models.Link{link("202001011201", "202001011200")}, false)

	if diff := cmp.Diff([]string{"notes.md"}, g.Isolated()); diff != "" {
		t.Errorf("isolated mismatch (-want +got):\n%s", diff)
	}
	want := [][]string{{"202001011200_alpha.md", "202001011201_beta.md"}, {"notes.md"}}
	if diff := cmp.Diff(want, g.Components()); diff != "" {
		t.Errorf("components mismatch (-want +got):\n%s", diff)
	}
	for _, name := range []string{"202001011201", "202001011201_beta.md"} {
		if diff := cmp.Diff(want[0], g.ComponentOf(name)); diff != "" {
			t.Errorf("ComponentOf(%q) mismatch (-want +got):\n%s", name, diff)
		}
	}
	if n, ok := g.Lookup("202001011200_alpha.md"); !ok || n.Key != "202001011200" {
		t.Errorf("Lookup by filename = %+v, %v", n, ok)
	}
	if diff := cmp.Diff([]string{"202001011201_beta.md", "gone"}, g.Filenames([]string{"202001011201", "gone"})); diff != "" {
		t.Errorf("filenames mismatch (-want +got):\n%s", diff)
	}
}

func TestUnionFind(t *testing.T) {
	u := newUnionFind(5)
	u.union(0, 1)
	u.union(3, 4)
	u.union(1, 4)
	if u.find(0) != u.find(3) {
		t.Error("0 and 3 should share a root")
	}
	if u.find(2) == u.find(0) {
		t.Error("2 should be alone")
	}
}
