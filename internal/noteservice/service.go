// Package noteservice owns the latest reference-graph snapshot of a note
// directory and rebuilds it on demand.
package noteservice

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/starford/zgraph/internal/apperr"
	"github.com/starford/zgraph/internal/diag"
	"github.com/starford/zgraph/internal/graph"
	"github.com/starford/zgraph/internal/models"
	"github.com/starford/zgraph/internal/sse"
)

// Snapshot is an immutable, fully analysed build.
type Snapshot struct {
	BuildID     string
	Digest      string
	BuiltAt     time.Time
	Graph       *graph.Graph
	Stats       graph.Stats
	Components  [][]string
	Diagnostics []diag.Diagnostic
}

// NoteReferences lists the neighbours of one note by filename.
type NoteReferences struct {
	Note      models.Note `json:"note"`
	Outgoing  []string    `json:"outgoing"`
	Incoming  []string    `json:"incoming"`
	Component []string    `json:"component"`
}

// Publisher announces published snapshots.
type Publisher interface {
	PublishRebuild(sse.Rebuild)
}

// Observer records published snapshots.
type Observer interface {
	Observe(graph.Stats, []diag.Diagnostic)
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher sets the rebuild publisher.
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithObserver sets the metrics observer.
func WithObserver(o Observer) Option {
	return func(s *Service) { s.observer = o }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// Service coordinates graph builds and holds the current snapshot.
type Service struct {
	builder   *graph.Builder
	publisher Publisher
	observer  Observer
	logger    *slog.Logger

	mu      sync.Mutex // serialises rebuilds
	current atomic.Pointer[Snapshot]
}

// NewService creates a service. No snapshot exists until the first Rebuild.
func NewService(builder *graph.Builder, opts ...Option) *Service {
	s := &Service{builder: builder, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the current snapshot, or nil before the first build.
func (s *Service) Snapshot() *Snapshot {
	return s.current.Load()
}

// Ready reports whether a snapshot has been published.
func (s *Service) Ready() bool {
	return s.current.Load() != nil
}

// Rebuild builds the graph and publishes it unless the directory digest is
// unchanged. It always returns the snapshot that is current afterwards.
// changed lists the note names that triggered the rebuild, if known.
func (s *Service) Rebuild(ctx context.Context, changed []string) (*Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.builder.Build(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("noteservice: rebuild: %w", err)
	}
	if prev := s.current.Load(); prev != nil && prev.Digest == res.Digest {
		s.logger.Debug("graph unchanged", slog.String("build_id", prev.BuildID))
		return prev, false, nil
	}

	snap := &Snapshot{
		BuildID:     uuid.NewString(),
		Digest:      res.Digest,
		BuiltAt:     time.Now().UTC(),
		Graph:       res.Graph,
		Stats:       graph.Analyze(res.Graph),
		Components:  res.Graph.Components(),
		Diagnostics: res.Diagnostics,
	}
	s.current.Store(snap)

	s.logger.Info("graph rebuilt",
		slog.String("build_id", snap.BuildID),
		slog.Int("notes", snap.Stats.Nodes),
		slog.Int("references", snap.Stats.Edges),
		slog.Int("diagnostics", len(snap.Diagnostics)))

	if s.observer != nil {
		s.observer.Observe(snap.Stats, snap.Diagnostics)
	}
	if s.publisher != nil {
		s.publisher.PublishRebuild(sse.Rebuild{
			BuildID:     snap.BuildID,
			Changed:     changed,
			Notes:       snap.Stats.Nodes,
			References:  snap.Stats.Edges,
			Components:  snap.Stats.Components,
			Diagnostics: len(snap.Diagnostics),
		})
	}
	return snap, true, nil
}

// References returns the neighbours and component of the note named by key
// or filename.
func (snap *Snapshot) References(name string) (*NoteReferences, error) {
	n, ok := snap.Graph.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: note %s", apperr.ErrNotFound, name)
	}
	return &NoteReferences{
		Note:      n,
		Outgoing:  nonNilSlice(snap.Graph.Filenames(snap.Graph.Successors(n.Key))),
		Incoming:  nonNilSlice(snap.Graph.Filenames(snap.Graph.Predecessors(n.Key))),
		Component: snap.Graph.ComponentOf(n.Key),
	}, nil
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
