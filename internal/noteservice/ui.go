package noteservice

import (
	"context"

	"github.com/starford/notewise/internal/apperr"
	"github.com/starford/notewise/internal/models"
	"github.com/starford/notewise/internal/store"
)

// UIState is the transient client state kept by the server.
type UIState struct {
	Selection     store.Selection   `json:"selection"`
	EditingNoteID string            `json:"editing_note_id,omitempty"`
	SearchTerm    string            `json:"search_term,omitempty"`
	Highlight     *models.Highlight `json:"highlight,omitempty"`
	ChatLoading   bool              `json:"chat_loading"`
}

func (s *Service) UIState(_ context.Context) UIState {
	st := UIState{
		Selection:     s.state.Selection(),
		EditingNoteID: s.state.EditingNoteID(),
		SearchTerm:    s.state.SearchTerm(),
		ChatLoading:   s.chat.Loading(),
	}
	if h, ok := s.state.Highlight(); ok {
		st.Highlight = &h
	}
	return st
}

// Select focuses a notebook, folder or note.
func (s *Service) Select(_ context.Context, kind models.TreeItemType, id string) (store.Selection, error) {
	switch kind {
	case models.TreeItemNotebook:
		return s.state.SelectNotebook(id)
	case models.TreeItemFolder:
		return s.state.SelectFolder(id)
	case models.TreeItemNote:
		return s.state.SelectNote(id)
	}
	return store.Selection{}, apperr.Invalid("unknown selection kind %q", kind)
}

func (s *Service) StartEditing(_ context.Context, noteID string) error {
	return s.state.StartEditing(noteID)
}

func (s *Service) StopEditing(_ context.Context) {
	s.state.StopEditing()
}

func (s *Service) SetSearchTerm(_ context.Context, term string) {
	s.state.SetSearchTerm(term)
}

// Highlight selects the note and marks the cited lines.
func (s *Service) Highlight(_ context.Context, noteID string, lines []int) (models.Highlight, error) {
	if _, err := s.state.SelectNote(noteID); err != nil {
		return models.Highlight{}, err
	}
	return s.state.SetHighlight(noteID, lines)
}

func (s *Service) ClearHighlight(_ context.Context) {
	s.state.ClearHighlight()
}

// Resolution lists the active notes a citation title may refer to.
type Resolution struct {
	Title      string        `json:"title"`
	Candidates []models.Note `json:"candidates"`
	Ambiguous  bool          `json:"ambiguous"`
}

// ResolveReference maps a cited title to notes. When several active notes
// share the title every one is returned and Ambiguous is set; the caller
// must pick a note id explicitly.
func (s *Service) ResolveReference(_ context.Context, title string) Resolution {
	notes := s.state.NotesByTitle(title)
	return Resolution{Title: title, Candidates: notes, Ambiguous: len(notes) > 1}
}
