package graph

import (
	"sort"
)

// Stats summarises a graph.
type Stats struct {
	Nodes      int      `json:"nodes"`
	Edges      int      `json:"edges"`
	Isolated   []string `json:"isolated"`
	Components int      `json:"components"`
}

// Analyze computes the summary statistics of g.
func Analyze(g *Graph) Stats {
	return Stats{
		Nodes:      g.NodeCount(),
		Edges:      g.EdgeCount(),
		Isolated:   g.Isolated(),
		Components: len(g.Components()),
	}
}

// Isolated returns the filenames of notes with no incoming or outgoing
// edges, sorted ascending.
func (g *Graph) Isolated() []string {
	out := []string{}
	for p := g.nodes.Oldest(); p != nil; p = p.Next() {
		if g.Degree(p.Key) == 0 {
			out = append(out, p.Value.Filename)
		}
	}
	sort.Strings(out)
	return out
}

// Components partitions the notes into connected components of the
// undirected projection and lists each by filename. Members are sorted
// ascending; components are ordered by size descending, then by first member
// ascending.
func (g *Graph) Components() [][]string {
	keys := g.Keys()
	ids := make(map[string]int, len(keys))
	for i, k := range keys {
		ids[k] = i
	}

	uf := newUnionFind(len(keys))
	for _, e := range g.edges {
		uf.union(ids[e.Source], ids[e.Target])
	}

	byRoot := make(map[int][]string)
	for i, k := range keys {
		n, _ := g.nodes.Get(k)
		r := uf.find(i)
		byRoot[r] = append(byRoot[r], n.Filename)
	}

	out := make([][]string, 0, len(byRoot))
	for _, members := range byRoot {
		sort.Strings(members)
		out = append(out, members)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i][0] < out[j][0]
	})
	return out
}

// ComponentOf returns the component containing the note named by key or
// filename, or nil when there is no such note.
func (g *Graph) ComponentOf(name string) []string {
	n, ok := g.Lookup(name)
	if !ok {
		return nil
	}
	for _, c := range g.Components() {
		i := sort.SearchStrings(c, n.Filename)
		if i < len(c) && c[i] == n.Filename {
			return c
		}
	}
	return nil
}
