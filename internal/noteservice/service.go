// Package noteservice is the application facade shared by the HTTP API and
// the MCP server. It applies mutations to the store, keeps the search index
// in step and publishes change events.
package noteservice

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/starford/notewise/internal/chat"
	"github.com/starford/notewise/internal/checksum"
	"github.com/starford/notewise/internal/importer"
	"github.com/starford/notewise/internal/index"
	"github.com/starford/notewise/internal/models"
	"github.com/starford/notewise/internal/parser"
	"github.com/starford/notewise/internal/sse"
	"github.com/starford/notewise/internal/storage"
	"github.com/starford/notewise/internal/store"
)

// Publisher receives change notifications.
type Publisher interface {
	PublishChange(entity, kind, id string)
	Publish(event sse.Event)
}

type nopPublisher struct{}

func (nopPublisher) PublishChange(string, string, string) {}
func (nopPublisher) Publish(sse.Event)                    {}

// NoteDetail is a note together with its ETag checksum.
type NoteDetail struct {
	models.Note
	Checksum string `json:"checksum"`
}

// Deps are the collaborators of a Service. Attachments and Events are
// optional.
type Deps struct {
	State       *store.State
	Chat        *chat.Session
	Importer    *importer.Importer
	Index       index.NoteIndex
	Attachments storage.Provider
	Events      Publisher
	Logger      *slog.Logger
}

// Service coordinates the store, the chat session, the search index and
// attachments.
type Service struct {
	state       *store.State
	chat        *chat.Session
	importer    *importer.Importer
	db          index.NoteIndex
	attachments storage.Provider
	events      Publisher
	logger      *slog.Logger
	newID       func() string

	// indexMu orders index writes after the store mutations they reflect.
	indexMu sync.Mutex
	async   sync.WaitGroup
}

func New(d Deps) *Service {
	s := &Service{
		state:       d.State,
		chat:        d.Chat,
		importer:    d.Importer,
		db:          d.Index,
		attachments: d.Attachments,
		events:      d.Events,
		logger:      d.Logger,
		newID:       uuid.NewString,
	}
	if s.events == nil {
		s.events = nopPublisher{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// ETag is the checksum of a note's full JSON representation.
func ETag(n models.Note) string {
	data, err := json.Marshal(n)
	if err != nil {
		return ""
	}
	return checksum.Sum(data)
}

func detail(n models.Note) NoteDetail {
	return NoteDetail{Note: n, Checksum: ETag(n)}
}

func row(n models.Note) index.NoteRow {
	return index.NoteRow{
		ID:         n.ID,
		NotebookID: n.NotebookID,
		FolderID:   n.FolderID,
		Title:      n.Title,
		Status:     string(n.Status),
		Pinned:     n.Pinned,
		Checksum:   ETag(n),
		Body:       parser.Flatten(n),
		UpdatedAt:  n.UpdatedAt,
	}
}

// reindex writes the note's current stored state to the index, or removes
// it when the note is gone. Reading the store under indexMu means a late
// reindex never overwrites a newer row with an older one. Index failures
// are logged; the store stays the source of truth and Sync repairs drift.
func (s *Service) reindex(n models.Note) {
	s.indexMu.Lock()
	defer s.indexMu.Unlock()

	cur, err := s.state.Note(n.ID)
	if err != nil {
		s.deindexLocked(n.ID)
		return
	}
	if err := s.db.UpsertNote(row(cur)); err != nil {
		s.logger.Warn("index: upsert failed", slog.String("id", n.ID), slog.String("error", err.Error()))
	}
}

func (s *Service) deindex(id string) {
	s.indexMu.Lock()
	defer s.indexMu.Unlock()
	s.deindexLocked(id)
}

func (s *Service) deindexLocked(id string) {
	if err := s.db.DeleteNote(id); err != nil {
		s.logger.Warn("index: delete failed", slog.String("id", id), slog.String("error", err.Error()))
	}
}

// noteChanged reindexes and publishes one note mutation.
func (s *Service) noteChanged(n models.Note, kind string) NoteDetail {
	s.reindex(n)
	s.events.PublishChange(sse.EntityNote, kind, n.ID)
	return detail(n)
}

// Sync rebuilds the search index from the store.
func (s *Service) Sync(_ context.Context) (index.SyncStats, error) {
	s.indexMu.Lock()
	defer s.indexMu.Unlock()

	notes := s.state.AllNotes()
	rows := make([]index.NoteRow, len(notes))
	for i, n := range notes {
		rows[i] = row(n)
	}
	return index.Sync(s.db, rows, s.logger)
}

// Search runs a full-text query over the index.
func (s *Service) Search(_ context.Context, query string, opts index.SearchOptions) ([]index.SearchResult, error) {
	return s.db.Search(query, opts)
}

// Tree returns the sidebar hierarchy.
func (s *Service) Tree(_ context.Context) []models.TreeItem {
	return s.state.Tree()
}

// Wait blocks until background chat exchanges have finished.
func (s *Service) Wait() {
	s.async.Wait()
}
