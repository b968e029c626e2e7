// Package store holds the in-memory notebook/folder/note hierarchy together
// with the UI-transient state (selection, editing, search term, highlight).
package store

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/starford/notewise/internal/apperr"
	"github.com/starford/notewise/internal/models"
)

// Clock returns the current time. Injected so tests control timestamps.
type Clock func() time.Time

// IDFunc generates entity ids.
type IDFunc func() string

// Option configures a State.
type Option func(*State)

// WithClock overrides the time source.
func WithClock(c Clock) Option {
	return func(s *State) {
		s.now = c
	}
}

// WithIDGenerator overrides the id generator.
func WithIDGenerator(f IDFunc) Option {
	return func(s *State) {
		s.newID = f
	}
}

// Selection is the currently focused notebook, folder and note.
type Selection struct {
	NotebookID string `json:"notebook_id,omitempty"`
	FolderID   string `json:"folder_id,omitempty"`
	NoteID     string `json:"note_id,omitempty"`
}

// State is the single source of truth for entity collections. All methods
// are safe for concurrent use; every mutation runs to completion under one
// lock and returns copies of what it touched.
type State struct {
	mu sync.RWMutex

	now   Clock
	newID IDFunc

	notebooks []models.Notebook
	folders   []models.Folder
	notes     []models.Note

	selection     Selection
	editingNoteID string
	searchTerm    string
	highlight     *models.Highlight
}

// New creates an empty State.
func New(opts ...Option) *State {
	s := &State{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *State) notebookIndex(id string) int {
	for i := range s.notebooks {
		if s.notebooks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *State) folderIndex(id string) int {
	for i := range s.folders {
		if s.folders[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *State) noteIndex(id string) int {
	for i := range s.notes {
		if s.notes[i].ID == id {
			return i
		}
	}
	return -1
}

func requireName(kind, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperr.Invalid("%s name is required", kind)
	}
	return name, nil
}

func notFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// NotFoundError reports an unknown entity id. It matches apperr.ErrNotFound.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return e.Kind + " " + e.ID + ": " + apperr.ErrNotFound.Error()
}

// Is makes errors.Is(err, apperr.ErrNotFound) succeed.
func (e *NotFoundError) Is(target error) bool {
	return target == apperr.ErrNotFound
}
