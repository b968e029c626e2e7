package index

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(MemoryDSN)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func row(id, title, body string) NoteRow {
	return NoteRow{
		ID:         id,
		NotebookID: "nb1",
		Title:      title,
		Status:     "active",
		Checksum:   id + "-1",
		Body:       body,
		UpdatedAt:  time.Now(),
	}
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM notes`).Scan(&count); err != nil {
		t.Fatalf("notes table missing: %v", err)
	}
}

func TestOpen_FileDSN(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()
	if err := db.UpsertNote(row("a", "A", "body")); err != nil {
		t.Fatalf("UpsertNote: %v", err)
	}
}

func TestWithParams(t *testing.T) {
	if got := withParams("notes.db?cache=shared"); got != "notes.db?cache=shared&_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on" {
		t.Errorf("got %q", got)
	}
	if got := withParams(MemoryDSN); got != ":memory:?_busy_timeout=5000&_foreign_keys=on" {
		t.Errorf("got %q", got)
	}
}

func TestUpsertAndGetChecksum(t *testing.T) {
	db := testDB(t)
	if err := db.UpsertNote(row("n1", "Hello World", "This is a hello world note.")); err != nil {
		t.Fatalf("UpsertNote: %v", err)
	}
	cs, err := db.GetChecksum("n1")
	if err != nil {
		t.Fatalf("GetChecksum: %v", err)
	}
	if cs != "n1-1" {
		t.Errorf("checksum = %q, want %q", cs, "n1-1")
	}
}

func TestGetChecksum_NotFound(t *testing.T) {
	db := testDB(t)
	cs, err := db.GetChecksum("nonexistent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cs != "" {
		t.Errorf("expected empty checksum, got %q", cs)
	}
}

func TestDeleteNote(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertNote(row("del", "Gone", "vanishing content"))
	if err := db.DeleteNote("del"); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	cs, _ := db.GetChecksum("del")
	if cs != "" {
		t.Errorf("deleted note still has checksum %q", cs)
	}
	results, _ := db.Search("vanishing", SearchOptions{})
	if len(results) != 0 {
		t.Errorf("deleted note still searchable: %+v", results)
	}
}

func TestUpsertUpdatesExisting(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertNote(row("up", "Old", "original text"))
	r := row("up", "New", "replacement text")
	r.Checksum = "2"
	_ = db.UpsertNote(r)

	cs, _ := db.GetChecksum("up")
	if cs != "2" {
		t.Errorf("checksum = %q, want %q", cs, "2")
	}
	results, _ := db.Search("original", SearchOptions{})
	if len(results) != 0 {
		t.Error("old content should be gone")
	}
	results, _ = db.Search("replacement", SearchOptions{})
	if len(results) != 1 || results[0].Title != "New" {
		t.Errorf("search not updated: %+v", results)
	}
}

func TestSearch_Filters(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertNote(row("a", "Milk run", "buy uniqueword"))
	other := row("b", "Elsewhere", "uniqueword too")
	other.NotebookID = "nb2"
	_ = db.UpsertNote(other)
	trashed := row("c", "Trash", "uniqueword again")
	trashed.Status = "trashed"
	_ = db.UpsertNote(trashed)

	results, err := db.Search("uniqueword", SearchOptions{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("active results = %+v", results)
	}
	results, _ = db.Search("uniqueword", SearchOptions{NotebookID: "nb2"})
	if len(results) != 1 || results[0].ID != "b" {
		t.Errorf("notebook filter = %+v", results)
	}
	results, _ = db.Search("uniqueword", SearchOptions{Status: "trashed"})
	if len(results) != 1 || results[0].ID != "c" {
		t.Errorf("status filter = %+v", results)
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertNote(row("a", "A", "body"))
	results, err := db.Search("   ", SearchOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("results = %+v", results)
	}
}

func TestSync(t *testing.T) {
	db := testDB(t)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	_ = db.UpsertNote(row("stale", "Stale", "old"))
	_ = db.UpsertNote(row("same", "Same", "kept"))

	rows := []NoteRow{row("same", "Same", "kept"), row("fresh", "Fresh", "new")}
	stats, err := Sync(db, rows, logger)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if stats.Indexed != 1 || stats.Removed != 1 {
		t.Errorf("stats = %+v", stats)
	}
	all, _ := db.AllChecksums()
	if _, ok := all["stale"]; ok {
		t.Error("stale row should be removed")
	}
	if _, ok := all["fresh"]; !ok {
		t.Error("fresh row should be indexed")
	}
}
