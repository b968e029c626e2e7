// Package index provides a SQLite-backed search index over notes with
// optional FTS5 full-text search.
package index

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// MemoryDSN keeps the index in process memory.
const MemoryDSN = ":memory:"

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS notes (
	id          TEXT PRIMARY KEY,
	notebook_id TEXT NOT NULL,
	folder_id   TEXT NOT NULL DEFAULT '',
	title       TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL DEFAULT 'active',
	pinned      INTEGER NOT NULL DEFAULT 0,
	checksum    TEXT NOT NULL DEFAULT '',
	body        TEXT NOT NULL DEFAULT '',
	updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_notes_notebook ON notes(notebook_id);
CREATE INDEX IF NOT EXISTS idx_notes_status ON notes(status);
`

// DB wraps a sql.DB with index-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
// An empty dsn opens an in-memory database.
func Open(dsn string) (*DB, error) {
	if dsn == "" {
		dsn = MemoryDSN
	}
	conn, err := sql.Open("sqlite3", withParams(dsn))
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
	conn.SetMaxOpenConns(1)
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply core schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

func withParams(dsn string) string {
	params := "_busy_timeout=5000&_foreign_keys=on"
	if dsn != MemoryDSN {
		params = "_journal_mode=WAL&" + params
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + params
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}
