//go:build !sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
	"strings"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not available; full-text search uses LIKE fallback on the notes.body column.
	return nil
}

func ftsUpsert(_ *sql.Tx, _, _, _ string) error {
	// Body is already stored in the notes table; nothing extra to do.
	return nil
}

func ftsDelete(_ *sql.Tx, _ string) {}

// Search performs a LIKE-based search (fallback when FTS5 is not compiled in).
func (db *DB) Search(query string, opts SearchOptions) ([]SearchResult, error) {
	opts = opts.normalize()
	query = strings.TrimSpace(query)
	if query == "" {
		return []SearchResult{}, nil
	}
	like := "%" + query + "%"
	rows, err := db.conn.Query(`
		SELECT id, notebook_id, folder_id, title, substr(body, 1, 200)
		FROM notes
		WHERE (title LIKE ? OR body LIKE ?)
		  AND status = ?
		  AND (? = '' OR notebook_id = ?)
		ORDER BY pinned DESC, updated_at DESC
		LIMIT ?
	`, like, like, opts.Status, opts.NotebookID, opts.NotebookID, opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	return scanResults(rows)
}
