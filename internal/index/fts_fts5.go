//go:build sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
	"strings"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS notes_fts USING fts5(
			id UNINDEXED,
			title,
			body,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsert(tx *sql.Tx, id, title, body string) error {
	_, _ = tx.Exec(`DELETE FROM notes_fts WHERE id = ?`, id)
	_, err := tx.Exec(`INSERT INTO notes_fts (id, title, body) VALUES (?, ?, ?)`, id, title, body)
	if err != nil {
		return fmt.Errorf("index: upsert fts: %w", err)
	}
	return nil
}

func ftsDelete(tx *sql.Tx, id string) {
	_, _ = tx.Exec(`DELETE FROM notes_fts WHERE id = ?`, id)
}

// ftsQuery quotes every term so user input never hits FTS5 query syntax.
func ftsQuery(q string) string {
	fields := strings.Fields(q)
	for i, f := range fields {
		fields[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(fields, " ")
}

// Search performs an FTS5 full-text search and returns matching results with snippets.
func (db *DB) Search(query string, opts SearchOptions) ([]SearchResult, error) {
	opts = opts.normalize()
	q := ftsQuery(query)
	if q == "" {
		return []SearchResult{}, nil
	}
	rows, err := db.conn.Query(`
		SELECT n.id,
		       n.notebook_id,
		       n.folder_id,
		       n.title,
		       snippet(notes_fts, 2, '<b>', '</b>', '...', 64)
		FROM notes_fts
		JOIN notes n ON n.id = notes_fts.id
		WHERE notes_fts MATCH ?
		  AND n.status = ?
		  AND (? = '' OR n.notebook_id = ?)
		ORDER BY n.pinned DESC, rank
		LIMIT ?
	`, q, opts.Status, opts.NotebookID, opts.NotebookID, opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	return scanResults(rows)
}
