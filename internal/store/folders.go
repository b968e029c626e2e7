package store

import (
	"github.com/starford/notewise/internal/apperr"
	"github.com/starford/notewise/internal/models"
)

// AddFolder creates a folder in a notebook, optionally nested under parentID.
func (s *State) AddFolder(name, notebookID, parentID string) (models.Folder, error) {
	name, err := requireName("folder", name)
	if err != nil {
		return models.Folder{}, err
	}
	if notebookID == "" {
		return models.Folder{}, apperr.Invalid("select a notebook before adding a folder")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.notebookIndex(notebookID) < 0 {
		return models.Folder{}, notFound("notebook", notebookID)
	}
	if parentID != "" {
		p := s.folderIndex(parentID)
		if p < 0 {
			return models.Folder{}, notFound("folder", parentID)
		}
		if s.folders[p].NotebookID != notebookID {
			return models.Folder{}, apperr.Invalid("parent folder belongs to another notebook")
		}
	}

	now := s.now()
	f := models.Folder{
		ID:         s.newID(),
		Name:       name,
		NotebookID: notebookID,
		ParentID:   parentID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.folders = append(s.folders, f)
	return f, nil
}

// RenameFolder changes a folder's name.
func (s *State) RenameFolder(id, name string) (models.Folder, error) {
	name, err := requireName("folder", name)
	if err != nil {
		return models.Folder{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.folderIndex(id)
	if i < 0 {
		return models.Folder{}, notFound("folder", id)
	}
	s.folders[i].Name = name
	s.folders[i].UpdatedAt = s.now()
	return s.folders[i], nil
}

// DeleteFolder removes the folder and every folder nested below it. Notes in
// any removed folder are moved to the trash with their folder cleared.
func (s *State) DeleteFolder(id string) (Cascade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.folderIndex(id) < 0 {
		return Cascade{}, notFound("folder", id)
	}

	doomed := s.descendants(id)
	var c Cascade
	folders := s.folders[:0]
	for _, f := range s.folders {
		if _, ok := doomed[f.ID]; ok {
			c.RemovedFolders = append(c.RemovedFolders, f.ID)
			continue
		}
		folders = append(folders, f)
	}
	s.folders = folders

	now := s.now()
	for i := range s.notes {
		n := &s.notes[i]
		if _, ok := doomed[n.FolderID]; !ok || n.FolderID == "" {
			continue
		}
		n.FolderID = ""
		n.Status = models.NoteStatusTrashed
		n.DeletedAt = &now
		n.UpdatedAt = now
		c.TrashedNotes = append(c.TrashedNotes, n.ID)
		s.forgetNote(n.ID)
	}

	s.dropDangling()
	return c, nil
}

// descendants returns id and the ids of all folders nested below it.
func (s *State) descendants(id string) map[string]struct{} {
	out := map[string]struct{}{id: {}}
	for changed := true; changed; {
		changed = false
		for _, f := range s.folders {
			if _, seen := out[f.ID]; seen || f.ParentID == "" {
				continue
			}
			if _, ok := out[f.ParentID]; ok {
				out[f.ID] = struct{}{}
				changed = true
			}
		}
	}
	return out
}

// Folders returns the folders of a notebook, or all folders when notebookID
// is empty.
func (s *State) Folders(notebookID string) []models.Folder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Folder{}
	for _, f := range s.folders {
		if notebookID == "" || f.NotebookID == notebookID {
			out = append(out, f)
		}
	}
	return out
}

// Folder returns the folder with the given id.
func (s *State) Folder(id string) (models.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.folderIndex(id)
	if i < 0 {
		return models.Folder{}, notFound("folder", id)
	}
	return s.folders[i], nil
}

// FolderContents returns the direct sub-folders and notes of a folder.
func (s *State) FolderContents(id string) (Contents, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.folderIndex(id) < 0 {
		return Contents{}, notFound("folder", id)
	}
	c := Contents{Folders: []models.Folder{}, Notes: []models.Note{}}
	for _, f := range s.folders {
		if f.ParentID == id {
			c.Folders = append(c.Folders, f)
		}
	}
	for _, n := range s.notes {
		if n.FolderID == id {
			c.Notes = append(c.Notes, n.Clone())
		}
	}
	return c, nil
}
