package models

import "time"

// NoteType tells how a note's body is represented.
type NoteType string

const (
	NoteTypeText NoteType = "text"
	NoteTypeList NoteType = "list"
)

// Valid reports whether t is a known note type.
func (t NoteType) Valid() bool {
	return t == NoteTypeText || t == NoteTypeList
}

// NoteStatus is the soft-deletion lifecycle of a note.
type NoteStatus string

const (
	NoteStatusActive   NoteStatus = "active"
	NoteStatusArchived NoteStatus = "archived"
	NoteStatusTrashed  NoteStatus = "trashed"
)

// Valid reports whether s is a known note status.
func (s NoteStatus) Valid() bool {
	switch s {
	case NoteStatusActive, NoteStatusArchived, NoteStatusTrashed:
		return true
	}
	return false
}

// NoteListItem is one checklist entry of a list note.
type NoteListItem struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Checked bool   `json:"checked"`
}

// Note is a text or checklist note. Content keeps the raw input even for list
// notes; Items is only populated when Type is NoteTypeList.
type Note struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Content    string         `json:"content"`
	Items      []NoteListItem `json:"items,omitempty"`
	Type       NoteType       `json:"type"`
	Color      string         `json:"color,omitempty"`
	ImageURL   string         `json:"image_url,omitempty"`
	Pinned     bool           `json:"pinned"`
	NotebookID string         `json:"notebook_id"`
	FolderID   string         `json:"folder_id,omitempty"`
	Status     NoteStatus     `json:"status"`
	Summary    string         `json:"summary,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  *time.Time     `json:"deleted_at,omitempty"`
}

// Clone returns a deep copy of n.
func (n Note) Clone() Note {
	if n.Items != nil {
		items := make([]NoteListItem, len(n.Items))
		copy(items, n.Items)
		n.Items = items
	}
	if n.DeletedAt != nil {
		t := *n.DeletedAt
		n.DeletedAt = &t
	}
	return n
}

// IsActive reports whether the note is neither archived nor trashed.
func (n Note) IsActive() bool {
	return n.Status == NoteStatusActive
}

// NewNote is the input for creating a note.
type NewNote struct {
	Title      string
	Content    string
	NotebookID string
	FolderID   string
	Summary    string
}

// NotePatch is a partial update; nil fields are left untouched.
type NotePatch struct {
	Title    *string         `json:"title,omitempty"`
	Content  *string         `json:"content,omitempty"`
	Items    *[]NoteListItem `json:"items,omitempty"`
	Type     *NoteType       `json:"type,omitempty"`
	Color    *string         `json:"color,omitempty"`
	ImageURL *string         `json:"image_url,omitempty"`
	Pinned   *bool           `json:"pinned,omitempty"`
	FolderID *string         `json:"folder_id,omitempty"`
	Status   *NoteStatus     `json:"status,omitempty"`
	Summary  *string         `json:"summary,omitempty"`
}

// Highlight marks the lines of a note cited by an AI answer.
type Highlight struct {
	NoteID string `json:"note_id"`
	Lines  []int  `json:"lines"`
}
