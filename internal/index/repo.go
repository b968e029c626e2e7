package index

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// NoteRow represents a row in the notes table. Body is the flattened text
// that search runs against.
type NoteRow struct {
	ID         string
	NotebookID string
	FolderID   string
	Title      string
	Status     string
	Pinned     bool
	Checksum   string
	Body       string
	UpdatedAt  time.Time
}

// SearchOptions narrows a search. Status defaults to "active".
type SearchOptions struct {
	Limit      int
	NotebookID string
	Status     string
}

func (o SearchOptions) normalize() SearchOptions {
	if o.Limit <= 0 {
		o.Limit = 20
	}
	if o.Status == "" {
		o.Status = "active"
	}
	return o
}

// SearchResult represents one search hit.
type SearchResult struct {
	ID         string `json:"id"`
	NotebookID string `json:"notebook_id"`
	FolderID   string `json:"folder_id,omitempty"`
	Title      string `json:"title"`
	Snippet    string `json:"snippet"`
}

// UpsertNote inserts or replaces a note and its FTS entry within a transaction.
func (db *DB) UpsertNote(n NoteRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if n.Status == "" {
		n.Status = "active"
	}
	_, err = tx.Exec(`
		INSERT INTO notes (id, notebook_id, folder_id, title, status, pinned, checksum, body, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			notebook_id = excluded.notebook_id,
			folder_id   = excluded.folder_id,
			title       = excluded.title,
			status      = excluded.status,
			pinned      = excluded.pinned,
			checksum    = excluded.checksum,
			body        = excluded.body,
			updated_at  = excluded.updated_at
	`, n.ID, n.NotebookID, n.FolderID, n.Title, n.Status, n.Pinned, n.Checksum, n.Body, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert note: %w", err)
	}

	// FTS upsert (no-op when FTS5 tag is absent).
	if err := ftsUpsert(tx, n.ID, n.Title, n.Body); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteNote removes a note and its FTS entry.
func (db *DB) DeleteNote(id string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, id)
	if _, err := tx.Exec(`DELETE FROM notes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("index: delete note: %w", err)
	}
	return tx.Commit()
}

// GetChecksum returns the stored checksum for a note, or empty string if not found.
func (db *DB) GetChecksum(id string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM notes WHERE id = ?`, id).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("index: get checksum: %w", err)
	}
	return cs, nil
}

// AllChecksums returns id → checksum for every indexed note.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT id, checksum FROM notes`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var id, cs string
		if err := rows.Scan(&id, &cs); err != nil {
			return nil, err
		}
		out[id] = cs
	}
	return out, rows.Err()
}

func scanResults(rows *sql.Rows) ([]SearchResult, error) {
	defer rows.Close()
	out := []SearchResult{}
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.ID, &r.NotebookID, &r.FolderID, &r.Title, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
