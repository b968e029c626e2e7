package store

import (
	"sort"
	"strings"
	"time"

	"github.com/starford/notewise/internal/apperr"
	"github.com/starford/notewise/internal/models"
	"github.com/starford/notewise/internal/parser"
)

// DefaultNoteTitle is used when a note is created without a title.
const DefaultNoteTitle = "Untitled Note"

// NoteFilter narrows Notes. Empty fields match everything, except Status
// which defaults to active.
type NoteFilter struct {
	NotebookID string
	FolderID   string
	Status     models.NoteStatus
	// Query is matched case-insensitively against title and content.
	Query string
}

// AddNote creates a note. The content is classified by the list parser, the
// note is placed first in the collection and becomes the selected note.
func (s *State) AddNote(in models.NewNote) (models.Note, error) {
	if in.NotebookID == "" {
		return models.Note{}, apperr.Invalid("select a notebook before adding a note")
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = DefaultNoteTitle
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.notebookIndex(in.NotebookID) < 0 {
		return models.Note{}, notFound("notebook", in.NotebookID)
	}
	if err := s.checkFolder(in.FolderID, in.NotebookID); err != nil {
		return models.Note{}, err
	}

	now := s.now()
	n := models.Note{
		ID:         s.newID(),
		Title:      title,
		Content:    in.Content,
		Type:       models.NoteTypeText,
		NotebookID: in.NotebookID,
		FolderID:   in.FolderID,
		Status:     models.NoteStatusActive,
		Summary:    in.Summary,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if res := parser.Classify(in.Content); res.IsList() {
		n.Type = models.NoteTypeList
		n.Items = s.toListItems(res.Items, nil)
	}

	s.notes = append([]models.Note{n}, s.notes...)
	s.selection = Selection{NotebookID: n.NotebookID, FolderID: n.FolderID, NoteID: n.ID}
	s.highlight = nil
	return n.Clone(), nil
}

// UpdateNote applies a partial update. The patch is validated as a whole
// before anything is written.
func (s *State) UpdateNote(id string, p models.NotePatch) (models.Note, error) {
	return s.UpdateNoteIf(id, p, nil)
}

// UpdateNoteIf is UpdateNote with a precondition. check sees the stored
// note under the same lock as the write; a non-nil error aborts the update.
func (s *State) UpdateNoteIf(id string, p models.NotePatch, check func(models.Note) error) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.noteIndex(id)
	if i < 0 {
		return models.Note{}, notFound("note", id)
	}
	if check != nil {
		if err := check(s.notes[i].Clone()); err != nil {
			return models.Note{}, err
		}
	}
	n := s.notes[i].Clone()

	if p.Title != nil {
		t := strings.TrimSpace(*p.Title)
		if t == "" {
			return models.Note{}, apperr.Invalid("note title is required")
		}
		n.Title = t
	}
	if p.Type != nil && !p.Type.Valid() {
		return models.Note{}, apperr.Invalid("unknown note type %q", *p.Type)
	}
	if p.Status != nil && !p.Status.Valid() {
		return models.Note{}, apperr.Invalid("unknown note status %q", *p.Status)
	}
	if p.FolderID != nil {
		if err := s.checkFolder(*p.FolderID, n.NotebookID); err != nil {
			return models.Note{}, err
		}
		n.FolderID = *p.FolderID
	}

	wasType := n.Type
	if p.Type != nil {
		n.Type = *p.Type
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	switch {
	case p.Items != nil:
		if n.Type != models.NoteTypeList {
			return models.Note{}, apperr.Invalid("items can only be set on a list note")
		}
		items, err := s.assignItemIDs(*p.Items)
		if err != nil {
			return models.Note{}, err
		}
		n.Items = items
		n.Content = parser.Render(n.Items)
	case n.Type == models.NoteTypeList && (wasType != models.NoteTypeList || p.Content != nil):
		n.Items = s.toListItems(parser.ItemsFromLines(n.Content), n.Items)
	case n.Type == models.NoteTypeText && wasType == models.NoteTypeList:
		if p.Content == nil {
			n.Content = itemTexts(n.Items)
		}
		n.Items = nil
	}

	if p.Color != nil {
		n.Color = strings.TrimSpace(*p.Color)
	}
	if p.ImageURL != nil {
		n.ImageURL = strings.TrimSpace(*p.ImageURL)
	}
	if p.Pinned != nil {
		n.Pinned = *p.Pinned
	}
	if p.Summary != nil {
		n.Summary = *p.Summary
	}

	now := s.now()
	if p.Status != nil && *p.Status != n.Status {
		setStatus(&n, *p.Status, now)
	}
	n.UpdatedAt = now

	s.notes[i] = n
	if !n.IsActive() {
		s.forgetNote(n.ID)
	}
	return n.Clone(), nil
}

// DeleteNote moves a note to the trash.
func (s *State) DeleteNote(id string) (models.Note, error) {
	return s.transition(id, models.NoteStatusTrashed)
}

// ArchiveNote hides a note from the active set without trashing it.
func (s *State) ArchiveNote(id string) (models.Note, error) {
	return s.transition(id, models.NoteStatusArchived)
}

// RestoreNote returns an archived or trashed note to the active set.
func (s *State) RestoreNote(id string) (models.Note, error) {
	return s.transition(id, models.NoteStatusActive)
}

func (s *State) transition(id string, status models.NoteStatus) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.noteIndex(id)
	if i < 0 {
		return models.Note{}, notFound("note", id)
	}
	n := &s.notes[i]
	now := s.now()
	setStatus(n, status, now)
	n.UpdatedAt = now
	if status != models.NoteStatusActive {
		s.forgetNote(id)
	}
	return n.Clone(), nil
}

func setStatus(n *models.Note, status models.NoteStatus, now time.Time) {
	n.Status = status
	if status == models.NoteStatusTrashed {
		n.DeletedAt = &now
		return
	}
	n.DeletedAt = nil
}

// PurgeNote permanently removes a trashed note.
func (s *State) PurgeNote(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.noteIndex(id)
	if i < 0 {
		return notFound("note", id)
	}
	if s.notes[i].Status != models.NoteStatusTrashed {
		return apperr.Invalid("only trashed notes can be deleted permanently")
	}
	s.notes = append(s.notes[:i], s.notes[i+1:]...)
	s.dropDangling()
	return nil
}

// EmptyTrash permanently removes every trashed note and returns their ids.
func (s *State) EmptyTrash() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []string
	kept := s.notes[:0]
	for _, n := range s.notes {
		if n.Status == models.NoteStatusTrashed {
			removed = append(removed, n.ID)
			continue
		}
		kept = append(kept, n)
	}
	s.notes = kept
	s.dropDangling()
	return removed
}

// TogglePin flips the pinned flag.
func (s *State) TogglePin(id string) (models.Note, error) {
	return s.mutate(id, func(n *models.Note) error {
		n.Pinned = !n.Pinned
		return nil
	})
}

// SetColor sets the note's background color. An empty color clears it.
func (s *State) SetColor(id, color string) (models.Note, error) {
	return s.mutate(id, func(n *models.Note) error {
		n.Color = strings.TrimSpace(color)
		return nil
	})
}

// SetImageURL attaches an image to the note. An empty url removes it.
func (s *State) SetImageURL(id, url string) (models.Note, error) {
	return s.mutate(id, func(n *models.Note) error {
		n.ImageURL = strings.TrimSpace(url)
		return nil
	})
}

// mutate runs fn on a copy of the note and commits it with a fresh
// UpdatedAt when fn succeeds.
func (s *State) mutate(id string, fn func(*models.Note) error) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.noteIndex(id)
	if i < 0 {
		return models.Note{}, notFound("note", id)
	}
	n := s.notes[i].Clone()
	if err := fn(&n); err != nil {
		return models.Note{}, err
	}
	n.UpdatedAt = s.now()
	s.notes[i] = n
	return n.Clone(), nil
}

// Note returns the note with the given id.
func (s *State) Note(id string) (models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.noteIndex(id)
	if i < 0 {
		return models.Note{}, notFound("note", id)
	}
	return s.notes[i].Clone(), nil
}

// Notes returns the notes matching f, pinned notes first and otherwise
// newest first.
func (s *State) Notes(f NoteFilter) []models.Note {
	status := f.Status
	if status == "" {
		status = models.NoteStatusActive
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))

	s.mu.RLock()
	out := []models.Note{}
	for _, n := range s.notes {
		if n.Status != status {
			continue
		}
		if f.NotebookID != "" && n.NotebookID != f.NotebookID {
			continue
		}
		if f.FolderID != "" && n.FolderID != f.FolderID {
			continue
		}
		if q != "" && !matches(n, q) {
			continue
		}
		out = append(out, n.Clone())
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Pinned && !out[j].Pinned
	})
	return out
}

// ActiveNotes returns every active note in collection order.
func (s *State) ActiveNotes() []models.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Note{}
	for _, n := range s.notes {
		if n.IsActive() {
			out = append(out, n.Clone())
		}
	}
	return out
}

// NotesByTitle returns every active note whose title equals title.
func (s *State) NotesByTitle(title string) []models.Note {
	title = strings.TrimSpace(title)
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Note{}
	for _, n := range s.notes {
		if n.IsActive() && n.Title == title {
			out = append(out, n.Clone())
		}
	}
	return out
}

func matches(n models.Note, q string) bool {
	if strings.Contains(strings.ToLower(n.Title), q) {
		return true
	}
	return strings.Contains(strings.ToLower(parser.Flatten(n)), q)
}

// checkFolder validates that folderID is empty or names a folder of
// notebookID.
func (s *State) checkFolder(folderID, notebookID string) error {
	if folderID == "" {
		return nil
	}
	i := s.folderIndex(folderID)
	if i < 0 {
		return notFound("folder", folderID)
	}
	if s.folders[i].NotebookID != notebookID {
		return apperr.Invalid("folder belongs to another notebook")
	}
	return nil
}

// forgetNote clears transient references to a note that left the active
// set.
func (s *State) forgetNote(id string) {
	if s.selection.NoteID == id {
		s.selection.NoteID = ""
	}
	if s.editingNoteID == id {
		s.editingNoteID = ""
	}
	if s.highlight != nil && s.highlight.NoteID == id {
		s.highlight = nil
	}
}

// toListItems converts parsed items, reusing ids from prev by position so
// that re-parsing edited content keeps item identity stable.
func (s *State) toListItems(items []parser.Item, prev []models.NoteListItem) []models.NoteListItem {
	out := make([]models.NoteListItem, len(items))
	for i, it := range items {
		id := ""
		if i < len(prev) {
			id = prev[i].ID
		}
		if id == "" {
			id = s.newID()
		}
		out[i] = models.NoteListItem{ID: id, Text: it.Text, Checked: it.Checked}
	}
	return out
}

func (s *State) assignItemIDs(items []models.NoteListItem) ([]models.NoteListItem, error) {
	out := make([]models.NoteListItem, len(items))
	seen := make(map[string]struct{}, len(items))
	for i, it := range items {
		if it.ID == "" {
			it.ID = s.newID()
		}
		if _, dup := seen[it.ID]; dup {
			return nil, apperr.Invalid("duplicate list item id %q", it.ID)
		}
		seen[it.ID] = struct{}{}
		text, err := itemText(it.Text)
		if err != nil {
			return nil, err
		}
		it.Text = text
		out[i] = it
	}
	return out, nil
}

func itemTexts(items []models.NoteListItem) string {
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = it.Text
	}
	return strings.Join(lines, "\n")
}

// AllNotes returns every note regardless of status, in collection order.
func (s *State) AllNotes() []models.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Note, len(s.notes))
	for i, n := range s.notes {
		out[i] = n.Clone()
	}
	return out
}
