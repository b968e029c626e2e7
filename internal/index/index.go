package index

// NoteIndex defines the interface for note indexing operations.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type NoteIndex interface {
	UpsertNote(n NoteRow) error
	DeleteNote(id string) error
	GetChecksum(id string) (string, error)
	AllChecksums() (map[string]string, error)
	Search(query string, opts SearchOptions) ([]SearchResult, error)
	Close() error
}

// Verify *DB satisfies NoteIndex at compile time.
var _ NoteIndex = (*DB)(nil)
