package noteservice

import (
	"context"
	"fmt"

	"github.com/starford/notewise/internal/apperr"
	"github.com/starford/notewise/internal/importer"
	"github.com/starford/notewise/internal/models"
	"github.com/starford/notewise/internal/sse"
	"github.com/starford/notewise/internal/store"
)

func (s *Service) ListNotes(_ context.Context, f store.NoteFilter) []models.Note {
	return s.state.Notes(f)
}

func (s *Service) GetNote(_ context.Context, id string) (NoteDetail, error) {
	n, err := s.state.Note(id)
	if err != nil {
		return NoteDetail{}, err
	}
	return detail(n), nil
}

func (s *Service) CreateNote(_ context.Context, in models.NewNote) (NoteDetail, error) {
	n, err := s.state.AddNote(in)
	if err != nil {
		return NoteDetail{}, err
	}
	return s.noteChanged(n, sse.ChangeCreated), nil
}

// UpdateNote applies a patch. A non-empty ifMatch must equal the current
// checksum or the update fails with ErrConflict.
func (s *Service) UpdateNote(_ context.Context, id string, p models.NotePatch, ifMatch string) (NoteDetail, error) {
	var check func(models.Note) error
	if ifMatch != "" {
		check = func(cur models.Note) error {
			if ETag(cur) != ifMatch {
				return fmt.Errorf("note %s changed: %w", id, apperr.ErrConflict)
			}
			return nil
		}
	}
	n, err := s.state.UpdateNoteIf(id, p, check)
	if err != nil {
		return NoteDetail{}, err
	}
	return s.noteChanged(n, sse.ChangeUpdated), nil
}

func (s *Service) TrashNote(_ context.Context, id string) (NoteDetail, error) {
	return s.update(s.state.DeleteNote(id))
}

func (s *Service) ArchiveNote(_ context.Context, id string) (NoteDetail, error) {
	return s.update(s.state.ArchiveNote(id))
}

func (s *Service) RestoreNote(_ context.Context, id string) (NoteDetail, error) {
	return s.update(s.state.RestoreNote(id))
}

func (s *Service) TogglePin(_ context.Context, id string) (NoteDetail, error) {
	return s.update(s.state.TogglePin(id))
}

func (s *Service) SetColor(_ context.Context, id, color string) (NoteDetail, error) {
	return s.update(s.state.SetColor(id, color))
}

func (s *Service) AddListItem(_ context.Context, noteID, text string) (NoteDetail, error) {
	return s.update(s.state.AddListItem(noteID, text))
}

func (s *Service) UpdateListItem(_ context.Context, noteID, itemID, text string) (NoteDetail, error) {
	return s.update(s.state.UpdateListItem(noteID, itemID, text))
}

func (s *Service) ToggleListItem(_ context.Context, noteID, itemID string) (NoteDetail, error) {
	return s.update(s.state.ToggleListItem(noteID, itemID))
}

func (s *Service) RemoveListItem(_ context.Context, noteID, itemID string) (NoteDetail, error) {
	return s.update(s.state.RemoveListItem(noteID, itemID))
}

func (s *Service) update(n models.Note, err error) (NoteDetail, error) {
	if err != nil {
		return NoteDetail{}, err
	}
	return s.noteChanged(n, sse.ChangeUpdated), nil
}

// PurgeNote permanently deletes a trashed note and its attachment.
func (s *Service) PurgeNote(_ context.Context, id string) error {
	n, err := s.state.Note(id)
	if err != nil {
		return err
	}
	if err := s.state.PurgeNote(id); err != nil {
		return err
	}
	s.removeAttachment(n.ImageURL)
	s.deindex(id)
	s.events.PublishChange(sse.EntityNote, sse.ChangeDeleted, id)
	return nil
}

// EmptyTrash purges every trashed note.
func (s *Service) EmptyTrash(_ context.Context) []string {
	images := map[string]string{}
	for _, n := range s.state.Notes(store.NoteFilter{Status: models.NoteStatusTrashed}) {
		images[n.ID] = n.ImageURL
	}
	ids := s.state.EmptyTrash()
	for _, id := range ids {
		s.removeAttachment(images[id])
		s.deindex(id)
		s.events.PublishChange(sse.EntityNote, sse.ChangeDeleted, id)
	}
	return ids
}

// ImportFile turns a text file into a note in the given notebook/folder.
func (s *Service) ImportFile(ctx context.Context, f importer.File, notebookID, folderID string) (NoteDetail, error) {
	if notebookID == "" {
		return NoteDetail{}, apperr.Invalid("select a notebook before importing")
	}
	in, err := s.importer.Prepare(ctx, f, notebookID, folderID)
	if err != nil {
		return NoteDetail{}, err
	}
	return s.CreateNote(ctx, in)
}

// InboxHandler imports inbox files into the notebook called notebookName,
// creating it on first use.
func (s *Service) InboxHandler(notebookName string) importer.Handler {
	return func(ctx context.Context, f importer.File) error {
		nb, err := s.FindOrCreateNotebook(ctx, notebookName)
		if err != nil {
			return err
		}
		_, err = s.ImportFile(ctx, f, nb.ID, "")
		return err
	}
}
