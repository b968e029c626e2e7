package noteservice

import (
	"context"

	"github.com/starford/notewise/internal/models"
	"github.com/starford/notewise/internal/sse"
	"github.com/starford/notewise/internal/store"
)

func (s *Service) ListNotebooks(_ context.Context) []models.Notebook {
	return s.state.Notebooks()
}

func (s *Service) GetNotebook(_ context.Context, id string) (models.Notebook, error) {
	return s.state.Notebook(id)
}

func (s *Service) CreateNotebook(_ context.Context, name string) (models.Notebook, error) {
	nb, err := s.state.AddNotebook(name)
	if err != nil {
		return models.Notebook{}, err
	}
	s.events.PublishChange(sse.EntityNotebook, sse.ChangeCreated, nb.ID)
	return nb, nil
}

func (s *Service) RenameNotebook(_ context.Context, id, name string) (models.Notebook, error) {
	nb, err := s.state.RenameNotebook(id, name)
	if err != nil {
		return models.Notebook{}, err
	}
	s.events.PublishChange(sse.EntityNotebook, sse.ChangeUpdated, nb.ID)
	return nb, nil
}

// DeleteNotebook removes the notebook with its folders and notes.
func (s *Service) DeleteNotebook(_ context.Context, id string) (store.Cascade, error) {
	c, err := s.state.DeleteNotebook(id)
	if err != nil {
		return store.Cascade{}, err
	}
	s.applyCascade(c)
	s.events.PublishChange(sse.EntityNotebook, sse.ChangeDeleted, id)
	return c, nil
}

func (s *Service) NotebookContents(_ context.Context, id string) (store.Contents, error) {
	return s.state.NotebookContents(id)
}

// FindOrCreateNotebook returns the first notebook called name, creating it
// when none exists.
func (s *Service) FindOrCreateNotebook(ctx context.Context, name string) (models.Notebook, error) {
	for _, nb := range s.state.Notebooks() {
		if nb.Name == name {
			return nb, nil
		}
	}
	return s.CreateNotebook(ctx, name)
}

func (s *Service) ListFolders(_ context.Context, notebookID string) []models.Folder {
	return s.state.Folders(notebookID)
}

func (s *Service) GetFolder(_ context.Context, id string) (models.Folder, error) {
	return s.state.Folder(id)
}

func (s *Service) CreateFolder(_ context.Context, name, notebookID, parentID string) (models.Folder, error) {
	f, err := s.state.AddFolder(name, notebookID, parentID)
	if err != nil {
		return models.Folder{}, err
	}
	s.events.PublishChange(sse.EntityFolder, sse.ChangeCreated, f.ID)
	return f, nil
}

func (s *Service) RenameFolder(_ context.Context, id, name string) (models.Folder, error) {
	f, err := s.state.RenameFolder(id, name)
	if err != nil {
		return models.Folder{}, err
	}
	s.events.PublishChange(sse.EntityFolder, sse.ChangeUpdated, f.ID)
	return f, nil
}

// DeleteFolder removes the folder subtree and trashes the notes it held.
func (s *Service) DeleteFolder(_ context.Context, id string) (store.Cascade, error) {
	c, err := s.state.DeleteFolder(id)
	if err != nil {
		return store.Cascade{}, err
	}
	s.applyCascade(c)
	return c, nil
}

func (s *Service) FolderContents(_ context.Context, id string) (store.Contents, error) {
	return s.state.FolderContents(id)
}

func (s *Service) applyCascade(c store.Cascade) {
	for _, id := range c.RemovedNotes {
		s.deindex(id)
		s.events.PublishChange(sse.EntityNote, sse.ChangeDeleted, id)
	}
	for _, id := range c.TrashedNotes {
		if n, err := s.state.Note(id); err == nil {
			s.noteChanged(n, sse.ChangeUpdated)
		}
	}
	for _, id := range c.RemovedFolders {
		s.events.PublishChange(sse.EntityFolder, sse.ChangeDeleted, id)
	}
}
