package store

import (
	"strings"

	"github.com/starford/notewise/internal/apperr"
	"github.com/starford/notewise/internal/models"
	"github.com/starford/notewise/internal/parser"
)

// ToggleListItem flips the checked flag of one item. Other items are left
// untouched.
func (s *State) ToggleListItem(noteID, itemID string) (models.Note, error) {
	return s.mutateItems(noteID, func(items []models.NoteListItem) ([]models.NoteListItem, error) {
		i := itemIndex(items, itemID)
		if i < 0 {
			return nil, notFound("list item", itemID)
		}
		items[i].Checked = !items[i].Checked
		return items, nil
	})
}

// AddListItem appends an unchecked item.
func (s *State) AddListItem(noteID, text string) (models.Note, error) {
	return s.mutateItems(noteID, func(items []models.NoteListItem) ([]models.NoteListItem, error) {
		t, err := itemText(text)
		if err != nil {
			return nil, err
		}
		return append(items, models.NoteListItem{ID: s.newID(), Text: t}), nil
	})
}

// UpdateListItem replaces the text of one item.
func (s *State) UpdateListItem(noteID, itemID, text string) (models.Note, error) {
	return s.mutateItems(noteID, func(items []models.NoteListItem) ([]models.NoteListItem, error) {
		i := itemIndex(items, itemID)
		if i < 0 {
			return nil, notFound("list item", itemID)
		}
		t, err := itemText(text)
		if err != nil {
			return nil, err
		}
		items[i].Text = t
		return items, nil
	})
}

// RemoveListItem deletes one item, keeping the order of the rest.
func (s *State) RemoveListItem(noteID, itemID string) (models.Note, error) {
	return s.mutateItems(noteID, func(items []models.NoteListItem) ([]models.NoteListItem, error) {
		i := itemIndex(items, itemID)
		if i < 0 {
			return nil, notFound("list item", itemID)
		}
		return append(items[:i], items[i+1:]...), nil
	})
}

func (s *State) mutateItems(noteID string, fn func([]models.NoteListItem) ([]models.NoteListItem, error)) (models.Note, error) {
	return s.mutate(noteID, func(n *models.Note) error {
		if n.Type != models.NoteTypeList {
			return apperr.Invalid("note is not a list")
		}
		items, err := fn(n.Items)
		if err != nil {
			return err
		}
		n.Items = items
		n.Content = parser.Render(items)
		return nil
	})
}

func itemIndex(items []models.NoteListItem, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

// itemText trims an item's text. An item is one rendered line, so line
// breaks are rejected.
func itemText(text string) (string, error) {
	if strings.ContainsAny(text, "\r\n") {
		return "", apperr.Invalid("list item text must be a single line")
	}
	return strings.TrimSpace(text), nil
}
