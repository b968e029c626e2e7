package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/notewise/internal/models"
	"github.com/starford/notewise/internal/noteservice"
	"github.com/starford/notewise/internal/store"
)

// NameRequest creates or renames a notebook or folder.
type NameRequest struct {
	Name string `json:"name" example:"Work" validate:"required"`
}

func (r *NameRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
	)
}

// CreateFolderRequest is the request body for creating a folder.
type CreateFolderRequest struct {
	Name       string `json:"name" example:"Ideas" validate:"required"`
	NotebookID string `json:"notebook_id" validate:"required"`
	ParentID   string `json:"parent_id,omitempty"`
}

func (r *CreateFolderRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.NotebookID, validation.Required),
	)
}

// CreateNoteRequest is the request body for creating a note. Content that
// parses as a checklist produces a list note.
type CreateNoteRequest struct {
	Title      string `json:"title" example:"Groceries"`
	Content    string `json:"content" example:"- Milk\n[x] Bread"`
	NotebookID string `json:"notebook_id" validate:"required"`
	FolderID   string `json:"folder_id,omitempty"`
}

func (r *CreateNoteRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.NotebookID, validation.Required),
	)
}

// UpdateNoteRequest is a partial note update; absent fields are unchanged.
type UpdateNoteRequest struct {
	models.NotePatch
}

func (r *UpdateNoteRequest) Validate() error {
	return validation.ValidateStruct(&r.NotePatch,
		validation.Field(&r.NotePatch.Type, validation.NilOrNotEmpty,
			validation.In(models.NoteTypeText, models.NoteTypeList)),
		validation.Field(&r.NotePatch.Status, validation.NilOrNotEmpty,
			validation.In(models.NoteStatusActive, models.NoteStatusArchived, models.NoteStatusTrashed)),
	)
}

// ItemRequest adds or edits a checklist item.
type ItemRequest struct {
	Text string `json:"text" example:"Buy milk" validate:"required"`
}

func (r *ItemRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Text, validation.Required),
	)
}

// ColorRequest sets a note's background color. An empty color clears it.
type ColorRequest struct {
	Color string `json:"color" example:"hsl(50, 95%, 90%)"`
}

func (r *ColorRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Color, validation.Length(0, 64)),
	)
}

// ImageURLRequest points a note at an external image. An empty URL clears it.
type ImageURLRequest struct {
	URL string `json:"url" example:"https://example.com/cat.png"`
}

// SelectRequest focuses an entity of the tree. An empty ID clears that level.
type SelectRequest struct {
	Type models.TreeItemType `json:"type" example:"note" validate:"required"`
	ID   string              `json:"id"`
}

func (r *SelectRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Type, validation.Required,
			validation.In(models.TreeItemNotebook, models.TreeItemFolder, models.TreeItemNote)),
	)
}

// EditingRequest marks a note as the one being edited.
type EditingRequest struct {
	NoteID string `json:"note_id" validate:"required"`
}

func (r *EditingRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.NoteID, validation.Required),
	)
}

// SearchTermRequest sets the sidebar filter text.
type SearchTermRequest struct {
	Term string `json:"term"`
}

// HighlightRequest marks cited lines of a note.
type HighlightRequest struct {
	NoteID string `json:"note_id" validate:"required"`
	Lines  []int  `json:"lines" example:"1,3"`
}

func (r *HighlightRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.NoteID, validation.Required),
		validation.Field(&r.Lines, validation.Required),
	)
}

// ChatRequest asks a question about the active notes. With Async the
// answer is delivered later as a chat.answered event.
type ChatRequest struct {
	Question string `json:"question" example:"What do I need to buy?" validate:"required"`
	Async    bool   `json:"async"`
}

func (r *ChatRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Question, validation.Required),
	)
}

// NoteDetail is the full note response type (aliased from the domain layer).
type NoteDetail = noteservice.NoteDetail

// NoteListResponse wraps note listings.
type NoteListResponse struct {
	Notes []models.Note `json:"notes" validate:"required"`
	Total int           `json:"total" example:"42" validate:"required"`
}

// CascadeResponse reports what a notebook or folder deletion removed.
type CascadeResponse = store.Cascade

// ContentsResponse lists the direct children of a notebook or folder.
type ContentsResponse = store.Contents
