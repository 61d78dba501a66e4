// Package index writes reference graph snapshots into a SQLite database for
// external querying. The database is an export target only; graphs are never
// loaded back from it.
package index

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS snapshots (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	root       TEXT NOT NULL,
	digest     TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS notes (
	key       TEXT PRIMARY KEY,
	filename  TEXT NOT NULL,
	label     TEXT NOT NULL DEFAULT '',
	checksum  TEXT NOT NULL DEFAULT '',
	skipped   INTEGER NOT NULL DEFAULT 0,
	component INTEGER NOT NULL DEFAULT 0,
	ordinal   INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS links (
	source  TEXT NOT NULL,
	target  TEXT NOT NULL,
	ordinal INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS diagnostics (
	ordinal INTEGER NOT NULL,
	kind    TEXT NOT NULL,
	source  TEXT NOT NULL,
	token   TEXT NOT NULL DEFAULT '',
	message TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_links_source ON links(source);
CREATE INDEX IF NOT EXISTS idx_links_target ON links(target);
`

// DB wraps a sql.DB with snapshot operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
