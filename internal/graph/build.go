package graph

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/starford/zgraph/internal/checksum"
	"github.com/starford/zgraph/internal/diag"
	"github.com/starford/zgraph/internal/identity"
	"github.com/starford/zgraph/internal/models"
	"github.com/starford/zgraph/internal/parser"
	"github.com/starford/zgraph/internal/storage"
)

// Result is the output of one build.
type Result struct {
	Graph       *Graph
	Diagnostics []diag.Diagnostic
	// Digest identifies the directory contents the graph was built from.
	Digest string
}

// Builder turns a note directory into a Graph.
type Builder struct {
	store    storage.Provider
	strategy identity.Strategy
	workers  int
	parallel bool
	logger   *slog.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithStrategy sets the note identity strategy (default: whole filename).
func WithStrategy(s identity.Strategy) BuilderOption {
	return func(b *Builder) { b.strategy = s }
}

// WithWorkers bounds the number of notes read concurrently.
func WithWorkers(n int) BuilderOption {
	return func(b *Builder) { b.workers = n }
}

// WithParallelEdges keeps one edge per resolved reference instead of
// collapsing repeated references between the same pair of notes.
func WithParallelEdges(parallel bool) BuilderOption {
	return func(b *Builder) { b.parallel = parallel }
}

// WithLogger sets the logger used for build progress.
func WithLogger(l *slog.Logger) BuilderOption {
	return func(b *Builder) { b.logger = l }
}

// NewBuilder creates a Builder reading notes from store.
func NewBuilder(store storage.Provider, opts ...BuilderOption) *Builder {
	b := &Builder{
		store:    store,
		strategy: identity.Filename{},
		workers:  runtime.GOMAXPROCS(0),
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.workers < 1 {
		b.workers = 1
	}
	return b
}

// BuildDir validates dir and builds its graph with default patterns.
func BuildDir(ctx context.Context, dir string, opts ...BuilderOption) (*Graph, []diag.Diagnostic, error) {
	store, err := storage.NewFS(dir, nil)
	if err != nil {
		return nil, nil, err
	}
	res, err := NewBuilder(store, opts...).Build(ctx)
	if err != nil {
		return nil, nil, err
	}
	return res.Graph, res.Diagnostics, nil
}

type noteResult struct {
	checksum string
	skipErr  error
	targets  []string
	diags    []diag.Diagnostic
}

// Build lists the directory, reads every note and assembles the graph.
// Notes are processed concurrently but nodes, edges and diagnostics are
// emitted in ascending filename order.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	metas, err := b.store.List()
	if err != nil {
		return nil, fmt.Errorf("graph: list notes: %w", err)
	}

	notes := make([]models.Note, len(metas))
	keyDiags := make([][]diag.Diagnostic, len(metas))
	used := make(map[string]struct{}, len(metas))
	keyOf := make(map[string]string, len(metas))
	names := make([]string, 0, len(metas))
	for i, m := range metas {
		key := b.strategy.Key(m.Name)
		if _, dup := used[key]; dup {
			keyDiags[i] = append(keyDiags[i], diag.DuplicateKey(key, m.Name))
			key = m.Name
			if _, dup := used[key]; dup {
				key = fmt.Sprintf("%s#%d", m.Name, i)
			}
		}
		used[key] = struct{}{}
		keyOf[m.Name] = key
		names = append(names, m.Name)
		notes[i] = models.Note{
			Filename: m.Name,
			Key:      key,
			Label:    Label(m.Name),
			Path:     m.Path,
		}
	}

	// Tokens match filenames whatever the identity strategy.
	resolver, err := parser.NewResolver(names)
	if err != nil {
		return nil, err
	}

	results := make([]noteResult, len(metas))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i := range metas {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = b.processNote(resolver, metas[i].Name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("graph: build: %w", err)
	}

	var (
		edges   []models.Link
		diags   []diag.Diagnostic
		digests = make([]string, 0, 2*len(metas))
	)
	for i, r := range results {
		diags = append(diags, keyDiags[i]...)
		notes[i].Checksum = r.checksum
		digests = append(digests, notes[i].Filename, r.checksum)

		if r.skipErr != nil {
			notes[i].Skipped = true
			diags = append(diags, diag.Skipped(notes[i].Filename, r.skipErr))
			continue
		}
		diags = append(diags, r.diags...)
		for _, target := range r.targets {
			if target == notes[i].Filename {
				continue
			}
			edges = append(edges, models.Link{Source: notes[i].Key, Target: keyOf[target]})
		}
	}

	graph := Assemble(notes, edges, b.parallel)
	b.logger.Debug("graph: built",
		slog.String("root", b.store.Root()),
		slog.Int("notes", graph.NodeCount()),
		slog.Int("references", graph.EdgeCount()),
		slog.Int("diagnostics", len(diags)))

	return &Result{
		Graph:       graph,
		Diagnostics: diags,
		Digest:      checksum.Combine(digests...),
	}, nil
}

// processNote reads, decodes and extracts one note. Read and decode failures
// are recorded on the result, never returned.
func (b *Builder) processNote(resolver *parser.Resolver, name string) noteResult {
	data, err := b.store.Read(name)
	if err != nil {
		b.logger.Warn("graph: read failed", slog.String("note", name), slog.String("error", err.Error()))
		return noteResult{skipErr: err}
	}
	res := noteResult{checksum: checksum.Sum(data)}

	text, err := parser.DecodeText(data)
	if err != nil {
		res.skipErr = err
		return res
	}
	res.targets, res.diags = resolver.Extract(name, text)
	return res
}
