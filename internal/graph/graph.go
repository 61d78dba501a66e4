// Package graph assembles notes and resolved references into a directed
// reference graph and answers structural queries over it.
package graph

import (
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/starford/zgraph/internal/models"
)

// Graph is a directed reference graph. It is immutable once assembled.
type Graph struct {
	nodes  *orderedmap.OrderedMap[string, models.Note]
	byName map[string]string
	edges  []models.Link
	out    map[string][]string
	in     map[string][]string
}

// Assemble builds a Graph from nodes (in iteration order) and candidate
// edges. Edges whose endpoints are unknown or equal are dropped. Unless
// parallel is set, repeated (source, target) pairs collapse into one edge.
func Assemble(nodes []models.Note, edges []models.Link, parallel bool) *Graph {
	g := &Graph{
		nodes:  orderedmap.New[string, models.Note](),
		byName: make(map[string]string, len(nodes)),
		out:    make(map[string][]string, len(nodes)),
		in:     make(map[string][]string, len(nodes)),
	}
	for _, n := range nodes {
		g.nodes.Set(n.Key, n)
		g.byName[n.Filename] = n.Key
	}

	seen := make(map[models.Link]struct{}, len(edges))
	for _, e := range edges {
		if e.Source == e.Target {
			continue
		}
		if _, ok := g.nodes.Get(e.Source); !ok {
			continue
		}
		if _, ok := g.nodes.Get(e.Target); !ok {
			continue
		}
		if !parallel {
			if _, dup := seen[e]; dup {
				continue
			}
			seen[e] = struct{}{}
		}
		g.edges = append(g.edges, e)
		g.out[e.Source] = append(g.out[e.Source], e.Target)
		g.in[e.Target] = append(g.in[e.Target], e.Source)
	}
	return g
}

// NodeCount returns the number of notes.
func (g *Graph) NodeCount() int { return g.nodes.Len() }

// EdgeCount returns the number of references.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Nodes returns all notes in assembly order.
func (g *Graph) Nodes() []models.Note {
	out := make([]models.Note, 0, g.nodes.Len())
	for p := g.nodes.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Value)
	}
	return out
}

// Keys returns all node keys in assembly order.
func (g *Graph) Keys() []string {
	out := make([]string, 0, g.nodes.Len())
	for p := g.nodes.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Key)
	}
	return out
}

// Node looks up a note by key.
func (g *Graph) Node(key string) (models.Note, bool) {
	return g.nodes.Get(key)
}

// Lookup finds a note by key, falling back to its filename.
func (g *Graph) Lookup(name string) (models.Note, bool) {
	if n, ok := g.nodes.Get(name); ok {
		return n, true
	}
	if key, ok := g.byName[name]; ok {
		return g.nodes.Get(key)
	}
	return models.Note{}, false
}

// Filenames maps node keys to their filenames, keeping order. Unknown keys
// are passed through.
func (g *Graph) Filenames(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k
		if n, ok := g.nodes.Get(k); ok {
			out[i] = n.Filename
		}
	}
	return out
}

// Edges returns all references in insertion order.
func (g *Graph) Edges() []models.Link {
	return append([]models.Link(nil), g.edges...)
}

// Successors returns the targets key refers to, in insertion order.
func (g *Graph) Successors(key string) []string {
	return append([]string(nil), g.out[key]...)
}

// Predecessors returns the notes referring to key, in insertion order.
func (g *Graph) Predecessors(key string) []string {
	return append([]string(nil), g.in[key]...)
}

// OutDegree returns the number of outgoing edges of key.
func (g *Graph) OutDegree(key string) int { return len(g.out[key]) }

// InDegree returns the number of incoming edges of key.
func (g *Graph) InDegree(key string) int { return len(g.in[key]) }

// Degree returns in-degree plus out-degree.
func (g *Graph) Degree(key string) int { return g.InDegree(key) + g.OutDegree(key) }

var labelSeparators = strings.NewReplacer("_", " ", "-", " ")

// Label derives the short display label used when drawing a note:
// separators become spaces and note extensions are removed.
func Label(filename string) string {
	label := labelSeparators.Replace(filename)
	for _, ext := range []string{".md", ".txt"} {
		label = strings.ReplaceAll(label, ext, "")
	}
	return label
}
