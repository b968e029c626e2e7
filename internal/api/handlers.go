package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/notewise/internal/index"
	"github.com/starford/notewise/internal/models"
	"github.com/starford/notewise/internal/noteservice"
	"github.com/starford/notewise/internal/store"
)

// Handler holds API route handlers.
type Handler struct {
	svc *noteservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service) *Handler {
	return &Handler{svc: svc}
}

func idParam(r *http.Request) string {
	return chi.URLParam(r, "id")
}

// writeNote sends a note with its checksum as a quoted ETag header.
func writeNote(w http.ResponseWriter, status int, n NoteDetail) {
	w.Header().Set("ETag", `"`+n.Checksum+`"`)
	writeJSON(w, status, n)
}

// ListNotes handles GET /api/notes.
//
//	@Summary		List notes, pinned first
//	@Tags			notes
//	@Produce		json
//	@Param			notebook_id	query		string	false	"Filter by notebook"
//	@Param			folder_id	query		string	false	"Filter by folder"
//	@Param			status		query		string	false	"Lifecycle status"	Enums(active, archived, trashed)
//	@Param			q			query		string	false	"Case-insensitive title/content filter"
//	@Success		200			{object}	NoteListResponse
//	@Security		BearerAuth
//	@Router			/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status := models.NoteStatus(q.Get("status"))
	if status != "" && !status.Valid() {
		writeJSON(w, http.StatusBadRequest, errorBody("unknown status "+string(status)))
		return
	}
	notes := h.svc.ListNotes(r.Context(), store.NoteFilter{
		NotebookID: q.Get("notebook_id"),
		FolderID:   q.Get("folder_id"),
		Status:     status,
		Query:      q.Get("q"),
	})
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: notes, Total: len(notes)})
}

// GetNote handles GET /api/notes/{id}.
//
//	@Summary		Get a single note
//	@Tags			notes
//	@Produce		json
//	@Param			id	path		string	true	"Note ID"
//	@Success		200	{object}	NoteDetail
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	note, err := h.svc.GetNote(r.Context(), id)
	if err != nil {
		writeError(w, err, "get note", slog.String("id", id))
		return
	}
	writeNote(w, http.StatusOK, note)
}

// CreateNote handles POST /api/notes.
//
//	@Summary		Create a new note
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateNoteRequest	true	"Note to create"
//	@Success		201		{object}	NoteDetail
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes [post]
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req CreateNoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err, "create note")
		return
	}
	note, err := h.svc.CreateNote(r.Context(), models.NewNote{
		Title:      req.Title,
		Content:    req.Content,
		NotebookID: req.NotebookID,
		FolderID:   req.FolderID,
	})
	if err != nil {
		writeError(w, err, "create note", slog.String("notebook_id", req.NotebookID))
		return
	}
	writeNote(w, http.StatusCreated, note)
}

// UpdateNote handles PATCH /api/notes/{id}.
//
//	@Summary		Update a note with optimistic concurrency
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			id			path		string				true	"Note ID"
//	@Param			If-Match	header		string				false	"Checksum for optimistic concurrency"
//	@Param			body		body		UpdateNoteRequest	true	"Fields to change"
//	@Success		200			{object}	NoteDetail
//	@Failure		400			{object}	errResponse
//	@Failure		404			{object}	errResponse
//	@Failure		409			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [patch]
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	var req UpdateNoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err, "update note")
		return
	}

	// Strip surrounding quotes if present (standard ETag format).
	ifMatch := strings.Trim(r.Header.Get("If-Match"), `"`)

	note, err := h.svc.UpdateNote(r.Context(), id, req.NotePatch, ifMatch)
	if err != nil {
		writeError(w, err, "update note", slog.String("id", id))
		return
	}
	writeNote(w, http.StatusOK, note)
}

// TrashNote handles DELETE /api/notes/{id}. The note moves to the trash;
// use POST /api/notes/{id}/purge to delete it for good.
//
//	@Summary		Move a note to the trash
//	@Tags			notes
//	@Param			id	path		string	true	"Note ID"
//	@Success		200	{object}	NoteDetail
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [delete]
func (h *Handler) TrashNote(w http.ResponseWriter, r *http.Request) {
	h.noteAction(w, r, "trash note", h.svc.TrashNote)
}

func (h *Handler) ArchiveNote(w http.ResponseWriter, r *http.Request) {
	h.noteAction(w, r, "archive note", h.svc.ArchiveNote)
}

func (h *Handler) RestoreNote(w http.ResponseWriter, r *http.Request) {
	h.noteAction(w, r, "restore note", h.svc.RestoreNote)
}

func (h *Handler) TogglePin(w http.ResponseWriter, r *http.Request) {
	h.noteAction(w, r, "toggle pin", h.svc.TogglePin)
}

func (h *Handler) noteAction(w http.ResponseWriter, r *http.Request, op string, fn func(ctx context.Context, id string) (NoteDetail, error)) {
	id := idParam(r)
	note, err := fn(r.Context(), id)
	if err != nil {
		writeError(w, err, op, slog.String("id", id))
		return
	}
	writeNote(w, http.StatusOK, note)
}

// PurgeNote handles POST /api/notes/{id}/purge. Only trashed notes can be
// purged.
func (h *Handler) PurgeNote(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if err := h.svc.PurgeNote(r.Context(), id); err != nil {
		writeError(w, err, "purge note", slog.String("id", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// EmptyTrash handles DELETE /api/trash.
func (h *Handler) EmptyTrash(w http.ResponseWriter, r *http.Request) {
	ids := h.svc.EmptyTrash(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"purged": ids})
}

func (h *Handler) SetColor(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	var req ColorRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err, "set color")
		return
	}
	note, err := h.svc.SetColor(r.Context(), id, req.Color)
	if err != nil {
		writeError(w, err, "set color", slog.String("id", id))
		return
	}
	writeNote(w, http.StatusOK, note)
}

func (h *Handler) SetImageURL(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	var req ImageURLRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err, "set image url")
		return
	}
	note, err := h.svc.SetImageURL(r.Context(), id, req.URL)
	if err != nil {
		writeError(w, err, "set image url", slog.String("id", id))
		return
	}
	writeNote(w, http.StatusOK, note)
}

// AddItem handles POST /api/notes/{id}/items.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	var req ItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err, "add item")
		return
	}
	note, err := h.svc.AddListItem(r.Context(), id, req.Text)
	if err != nil {
		writeError(w, err, "add item", slog.String("id", id))
		return
	}
	writeNote(w, http.StatusCreated, note)
}

// UpdateItem handles PUT /api/notes/{id}/items/{itemID}.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, itemID := idParam(r), chi.URLParam(r, "itemID")
	var req ItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err, "update item")
		return
	}
	note, err := h.svc.UpdateListItem(r.Context(), id, itemID, req.Text)
	if err != nil {
		writeError(w, err, "update item", slog.String("id", id), slog.String("item_id", itemID))
		return
	}
	writeNote(w, http.StatusOK, note)
}

// ToggleItem handles POST /api/notes/{id}/items/{itemID}/toggle.
func (h *Handler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	id, itemID := idParam(r), chi.URLParam(r, "itemID")
	note, err := h.svc.ToggleListItem(r.Context(), id, itemID)
	if err != nil {
		writeError(w, err, "toggle item", slog.String("id", id), slog.String("item_id", itemID))
		return
	}
	writeNote(w, http.StatusOK, note)
}

// RemoveItem handles DELETE /api/notes/{id}/items/{itemID}.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, itemID := idParam(r), chi.URLParam(r, "itemID")
	note, err := h.svc.RemoveListItem(r.Context(), id, itemID)
	if err != nil {
		writeError(w, err, "remove item", slog.String("id", id), slog.String("item_id", itemID))
		return
	}
	writeNote(w, http.StatusOK, note)
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search across notes
//	@Tags			search
//	@Produce		json
//	@Param			q			query		string	true	"Search query"
//	@Param			notebook_id	query		string	false	"Restrict to a notebook"
//	@Param			status		query		string	false	"Lifecycle status"	Enums(active, archived, trashed)
//	@Param			limit		query		int		false	"Max results"
//	@Success		200			{object}	map[string]any
//	@Failure		400			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("q")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	results, err := h.svc.Search(r.Context(), query, index.SearchOptions{
		Limit:      limit,
		NotebookID: q.Get("notebook_id"),
		Status:     q.Get("status"),
	})
	if err != nil {
		writeError(w, err, "search", slog.String("query", query))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results": results,
	})
}
