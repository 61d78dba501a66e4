package index

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/zgraph/internal/graph"
)

// Counts summarises the stored snapshot.
type Counts struct {
	Notes       int
	Links       int
	Diagnostics int
}

// WriteSnapshot replaces the stored snapshot with res inside one transaction.
func (db *DB) WriteSnapshot(root string, res *graph.Result) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	for _, table := range []string{"snapshots", "notes", "links", "diagnostics"} {
		if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
			return fmt.Errorf("index: clear %s: %w", table, err)
		}
	}

	if _, err := tx.Exec(`INSERT INTO snapshots (id, root, digest) VALUES (1, ?, ?)`, root, res.Digest); err != nil {
		return fmt.Errorf("index: insert snapshot: %w", err)
	}

	g := res.Graph
	component := make(map[string]int, g.NodeCount())
	for i, members := range g.Components() {
		for _, m := range members {
			component[m] = i + 1
		}
	}

	noteStmt, err := tx.Prepare(`INSERT INTO notes (key, filename, label, checksum, skipped, component, ordinal) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("index: prepare note insert: %w", err)
	}
	defer noteStmt.Close()
	for i, n := range g.Nodes() {
		if _, err := noteStmt.Exec(n.Key, n.Filename, n.Label, n.Checksum, n.Skipped, component[n.Filename], i); err != nil {
			return fmt.Errorf("index: insert note %s: %w", n.Filename, err)
		}
	}

	linkStmt, err := tx.Prepare(`INSERT INTO links (source, target, ordinal) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("index: prepare link insert: %w", err)
	}
	defer linkStmt.Close()
	for i, e := range g.Edges() {
		if _, err := linkStmt.Exec(e.Source, e.Target, i); err != nil {
			return fmt.Errorf("index: insert link: %w", err)
		}
	}

	diagStmt, err := tx.Prepare(`INSERT INTO diagnostics (ordinal, kind, source, token, message) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("index: prepare diagnostic insert: %w", err)
	}
	defer diagStmt.Close()
	for i, d := range res.Diagnostics {
		if _, err := diagStmt.Exec(i, string(d.Kind), d.Source, d.Token, d.Message()); err != nil {
			return fmt.Errorf("index: insert diagnostic: %w", err)
		}
	}

	return tx.Commit()
}

// Counts returns row counts of the stored snapshot.
func (db *DB) Counts() (Counts, error) {
	var c Counts
	err := db.conn.QueryRow(`
		SELECT (SELECT count(*) FROM notes),
		       (SELECT count(*) FROM links),
		       (SELECT count(*) FROM diagnostics)
	`).Scan(&c.Notes, &c.Links, &c.Diagnostics)
	if err != nil {
		return Counts{}, fmt.Errorf("index: counts: %w", err)
	}
	return c, nil
}

// Backlinks returns the keys of notes referring to target, in link order.
func (db *DB) Backlinks(target string) ([]string, error) {
	rows, err := db.conn.Query(`SELECT source FROM links WHERE target = ? ORDER BY ordinal`, target)
	if err != nil {
		return nil, fmt.Errorf("index: backlinks: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Digest returns the stored snapshot digest, or empty string if none.
func (db *DB) Digest() (string, error) {
	var d string
	err := db.conn.QueryRow(`SELECT digest FROM snapshots WHERE id = 1`).Scan(&d)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("index: digest: %w", err)
	}
	return d, nil
}
