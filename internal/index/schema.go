package index

import "github.com/starford/zgraph/internal/graph"

// SnapshotWriter persists one built graph. Consumers should depend on this
// interface rather than the concrete *DB type.
type SnapshotWriter interface {
	WriteSnapshot(root string, res *graph.Result) error
	Close() error
}

// Verify *DB satisfies SnapshotWriter at compile time.
var _ SnapshotWriter = (*DB)(nil)
