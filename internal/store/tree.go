package store

import "github.com/starford/notewise/internal/models"

// Tree projects the hierarchy for a sidebar: notebooks, their nested folders
// and the active notes inside each level.
func (s *State) Tree() []models.TreeItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.TreeItem, 0, len(s.notebooks))
	for _, nb := range s.notebooks {
		item := models.TreeItem{ID: nb.ID, Name: nb.Name, Type: models.TreeItemNotebook}
		item.Children = append(s.folderNodes(nb.ID, ""), s.noteNodes(nb.ID, "")...)
		out = append(out, item)
	}
	return out
}

func (s *State) folderNodes(notebookID, parentID string) []models.TreeItem {
	var out []models.TreeItem
	for _, f := range s.folders {
		if f.NotebookID != notebookID || f.ParentID != parentID {
			continue
		}
		item := models.TreeItem{
			ID:         f.ID,
			Name:       f.Name,
			Type:       models.TreeItemFolder,
			ParentID:   parentOf(notebookID, parentID),
			NotebookID: notebookID,
		}
		item.Children = append(s.folderNodes(notebookID, f.ID), s.noteNodes(notebookID, f.ID)...)
		out = append(out, item)
	}
	return out
}

func (s *State) noteNodes(notebookID, folderID string) []models.TreeItem {
	var out []models.TreeItem
	for _, n := range s.notes {
		if !n.IsActive() || n.NotebookID != notebookID || n.FolderID != folderID {
			continue
		}
		out = append(out, models.TreeItem{
			ID:         n.ID,
			Name:       n.Title,
			Type:       models.TreeItemNote,
			ParentID:   parentOf(notebookID, folderID),
			NotebookID: notebookID,
			FolderID:   folderID,
		})
	}
	return out
}

func parentOf(notebookID, folderID string) string {
	if folderID != "" {
		return folderID
	}
	return notebookID
}
