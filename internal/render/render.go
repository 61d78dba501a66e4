// Package render draws reference graphs through Graphviz.
package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/emicklei/dot"

	"github.com/starford/zgraph/internal/apperr"
	"github.com/starford/zgraph/internal/graph"
)

const (
	DefaultEngine = "dot"
	DefaultFormat = "pdf"
)

// DOT returns the Graphviz source for g: one labelled node per note in graph
// order, then one edge per reference in insertion order.
func DOT(g *graph.Graph) string {
	d := dot.NewGraph(dot.Directed)
	d.Attr("comment", "Zettelkasten Graph")

	nodes := make(map[string]dot.Node, g.NodeCount())
	for _, n := range g.Nodes() {
		nodes[n.Key] = d.Node(n.Key).Label(n.Label)
	}
	for _, e := range g.Edges() {
		d.Edge(nodes[e.Source], nodes[e.Target])
	}
	return d.String()
}

// OutputPath returns the file the renderer writes for name. A trailing
// ".<format>" is stripped once and appended back, so "graph" and "graph.pdf"
// both produce "graph.pdf".
func OutputPath(name, format string) string {
	return strings.TrimSuffix(name, "."+format) + "." + format
}

// Renderer pipes DOT source into a Graphviz layout engine.
type Renderer struct {
	Engine string
	Format string
}

// NewRenderer returns a Renderer, substituting defaults for empty values.
func NewRenderer(engine, format string) *Renderer {
	if engine == "" {
		engine = DefaultEngine
	}
	if format == "" {
		format = DefaultFormat
	}
	return &Renderer{Engine: engine, Format: format}
}

// Render draws g into OutputPath(name, r.Format) and returns that path.
func (r *Renderer) Render(ctx context.Context, g *graph.Graph, name string) (string, error) {
	bin, err := exec.LookPath(r.Engine)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", apperr.ErrRendererUnavailable, r.Engine, err)
	}
	out := OutputPath(name, r.Format)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "-T"+r.Format, "-o", out)
	cmd.Stdin = strings.NewReader(DOT(g))
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("render: %s: %w: %s", r.Engine, err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}
