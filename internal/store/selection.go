package store

import (
	"strings"

	"github.com/starford/notewise/internal/models"
)

// SelectNotebook focuses a notebook and clears the folder and note
// selection. An empty id clears everything.
func (s *State) SelectNotebook(id string) (Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != "" && s.notebookIndex(id) < 0 {
		return Selection{}, notFound("notebook", id)
	}
	s.selection = Selection{NotebookID: id}
	s.highlight = nil
	return s.selection, nil
}

// SelectFolder focuses a folder and its notebook and clears the note.
func (s *State) SelectFolder(id string) (Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" {
		s.selection.FolderID = ""
		s.selection.NoteID = ""
		s.highlight = nil
		return s.selection, nil
	}
	i := s.folderIndex(id)
	if i < 0 {
		return Selection{}, notFound("folder", id)
	}
	s.selection = Selection{NotebookID: s.folders[i].NotebookID, FolderID: id}
	s.highlight = nil
	return s.selection, nil
}

// SelectNote focuses a note together with its folder and notebook.
func (s *State) SelectNote(id string) (Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" {
		s.selection.NoteID = ""
		s.highlight = nil
		return s.selection, nil
	}
	i := s.noteIndex(id)
	if i < 0 {
		return Selection{}, notFound("note", id)
	}
	n := s.notes[i]
	s.selection = Selection{NotebookID: n.NotebookID, FolderID: n.FolderID, NoteID: n.ID}
	s.highlight = nil
	return s.selection, nil
}

// Selection returns the current selection.
func (s *State) Selection() Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection
}

// StartEditing marks a note as the one being edited, replacing any previous
// one.
func (s *State) StartEditing(noteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.noteIndex(noteID) < 0 {
		return notFound("note", noteID)
	}
	s.editingNoteID = noteID
	return nil
}

// StopEditing clears the editing marker.
func (s *State) StopEditing() {
	s.mu.Lock()
	s.editingNoteID = ""
	s.mu.Unlock()
}

// EditingNoteID returns the id of the note being edited, or "".
func (s *State) EditingNoteID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.editingNoteID
}

// SetSearchTerm stores the sidebar search filter.
func (s *State) SetSearchTerm(term string) {
	s.mu.Lock()
	s.searchTerm = strings.TrimSpace(term)
	s.mu.Unlock()
}

// SearchTerm returns the current search filter.
func (s *State) SearchTerm() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.searchTerm
}

// SetHighlight marks cited lines of a note. Line numbers are 1-based; values
// below 1 are dropped.
func (s *State) SetHighlight(noteID string, lines []int) (models.Highlight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.noteIndex(noteID) < 0 {
		return models.Highlight{}, notFound("note", noteID)
	}
	h := models.Highlight{NoteID: noteID, Lines: []int{}}
	for _, l := range lines {
		if l > 0 {
			h.Lines = append(h.Lines, l)
		}
	}
	s.highlight = &h
	return cloneHighlight(h), nil
}

// ClearHighlight removes the cited-line highlight.
func (s *State) ClearHighlight() {
	s.mu.Lock()
	s.highlight = nil
	s.mu.Unlock()
}

// Highlight returns the current highlight and whether one is set.
func (s *State) Highlight() (models.Highlight, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.highlight == nil {
		return models.Highlight{}, false
	}
	return cloneHighlight(*s.highlight), true
}

func cloneHighlight(h models.Highlight) models.Highlight {
	h.Lines = append([]int{}, h.Lines...)
	return h
}
