package store

import (
	"github.com/starford/notewise/internal/models"
)

// Cascade lists the ids affected by a notebook or folder deletion.
type Cascade struct {
	RemovedFolders []string `json:"removed_folders"`
	RemovedNotes   []string `json:"removed_notes"`
	TrashedNotes   []string `json:"trashed_notes"`
}

// AddNotebook creates a notebook with the given name.
func (s *State) AddNotebook(name string) (models.Notebook, error) {
	name, err := requireName("notebook", name)
	if err != nil {
		return models.Notebook{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	nb := models.Notebook{ID: s.newID(), Name: name, CreatedAt: now, UpdatedAt: now}
	s.notebooks = append(s.notebooks, nb)
	return nb, nil
}

// RenameNotebook changes a notebook's name.
func (s *State) RenameNotebook(id, name string) (models.Notebook, error) {
	name, err := requireName("notebook", name)
	if err != nil {
		return models.Notebook{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.notebookIndex(id)
	if i < 0 {
		return models.Notebook{}, notFound("notebook", id)
	}
	s.notebooks[i].Name = name
	s.notebooks[i].UpdatedAt = s.now()
	return s.notebooks[i], nil
}

// DeleteNotebook removes the notebook together with all of its folders and
// notes. Notes are removed rather than trashed because a note must always
// reference an existing notebook.
func (s *State) DeleteNotebook(id string) (Cascade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.notebookIndex(id)
	if i < 0 {
		return Cascade{}, notFound("notebook", id)
	}
	s.notebooks = append(s.notebooks[:i], s.notebooks[i+1:]...)

	var c Cascade
	folders := s.folders[:0]
	for _, f := range s.folders {
		if f.NotebookID == id {
			c.RemovedFolders = append(c.RemovedFolders, f.ID)
			continue
		}
		folders = append(folders, f)
	}
	s.folders = folders

	notes := s.notes[:0]
	for _, n := range s.notes {
		if n.NotebookID == id {
			c.RemovedNotes = append(c.RemovedNotes, n.ID)
			continue
		}
		notes = append(notes, n)
	}
	s.notes = notes

	s.dropDangling()
	return c, nil
}

// Notebooks returns all notebooks in creation order.
func (s *State) Notebooks() []models.Notebook {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Notebook, len(s.notebooks))
	copy(out, s.notebooks)
	return out
}

// Notebook returns the notebook with the given id.
func (s *State) Notebook(id string) (models.Notebook, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.notebookIndex(id)
	if i < 0 {
		return models.Notebook{}, notFound("notebook", id)
	}
	return s.notebooks[i], nil
}

// Contents is the direct children of a notebook or folder.
type Contents struct {
	Folders []models.Folder `json:"folders"`
	Notes   []models.Note   `json:"notes"`
}

// NotebookContents returns the root folders and the notes that sit directly
// under the notebook.
func (s *State) NotebookContents(id string) (Contents, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.notebookIndex(id) < 0 {
		return Contents{}, notFound("notebook", id)
	}
	c := Contents{Folders: []models.Folder{}, Notes: []models.Note{}}
	for _, f := range s.folders {
		if f.NotebookID == id && f.ParentID == "" {
			c.Folders = append(c.Folders, f)
		}
	}
	for _, n := range s.notes {
		if n.NotebookID == id && n.FolderID == "" {
			c.Notes = append(c.Notes, n.Clone())
		}
	}
	return c, nil
}

// dropDangling clears transient references to entities that no longer exist.
// Callers hold the write lock.
func (s *State) dropDangling() {
	if s.selection.NotebookID != "" && s.notebookIndex(s.selection.NotebookID) < 0 {
		s.selection.NotebookID = ""
	}
	if s.selection.FolderID != "" && s.folderIndex(s.selection.FolderID) < 0 {
		s.selection.FolderID = ""
	}
	if s.selection.NoteID != "" && s.noteIndex(s.selection.NoteID) < 0 {
		s.selection.NoteID = ""
	}
	if s.editingNoteID != "" && s.noteIndex(s.editingNoteID) < 0 {
		s.editingNoteID = ""
	}
	if s.highlight != nil && s.noteIndex(s.highlight.NoteID) < 0 {
		s.highlight = nil
	}
}
