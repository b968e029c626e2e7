package api

import (
	"log/slog"
	"net/http"
)

// ListNotebooks handles GET /api/notebooks.
func (h *Handler) ListNotebooks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"notebooks": h.svc.ListNotebooks(r.Context()),
	})
}

func (h *Handler) GetNotebook(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	nb, err := h.svc.GetNotebook(r.Context(), id)
	if err != nil {
		writeError(w, err, "get notebook", slog.String("id", id))
		return
	}
	writeJSON(w, http.StatusOK, nb)
}

// CreateNotebook handles POST /api/notebooks.
//
//	@Summary		Create a notebook
//	@Tags			notebooks
//	@Accept			json
//	@Produce		json
//	@Param			body	body		NameRequest	true	"Notebook name"
//	@Success		201		{object}	models.Notebook
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notebooks [post]
func (h *Handler) CreateNotebook(w http.ResponseWriter, r *http.Request) {
	var req NameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err, "create notebook")
		return
	}
	nb, err := h.svc.CreateNotebook(r.Context(), req.Name)
	if err != nil {
		writeError(w, err, "create notebook")
		return
	}
	writeJSON(w, http.StatusCreated, nb)
}

func (h *Handler) RenameNotebook(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	var req NameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err, "rename notebook")
		return
	}
	nb, err := h.svc.RenameNotebook(r.Context(), id, req.Name)
	if err != nil {
		writeError(w, err, "rename notebook", slog.String("id", id))
		return
	}
	writeJSON(w, http.StatusOK, nb)
}

// DeleteNotebook handles DELETE /api/notebooks/{id}. Folders and notes of
// the notebook are removed with it.
//
//	@Summary		Delete a notebook and everything in it
//	@Tags			notebooks
//	@Param			id	path		string	true	"Notebook ID"
//	@Success		200	{object}	CascadeResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notebooks/{id} [delete]
func (h *Handler) DeleteNotebook(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	c, err := h.svc.DeleteNotebook(r.Context(), id)
	if err != nil {
		writeError(w, err, "delete notebook", slog.String("id", id))
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) NotebookContents(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	c, err := h.svc.NotebookContents(r.Context(), id)
	if err != nil {
		writeError(w, err, "notebook contents", slog.String("id", id))
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// ListFolders handles GET /api/notebooks/{id}/folders.
func (h *Handler) ListFolders(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if _, err := h.svc.GetNotebook(r.Context(), id); err != nil {
		writeError(w, err, "list folders", slog.String("id", id))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"folders": h.svc.ListFolders(r.Context(), id),
	})
}

func (h *Handler) GetFolder(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	f, err := h.svc.GetFolder(r.Context(), id)
	if err != nil {
		writeError(w, err, "get folder", slog.String("id", id))
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// CreateFolder handles POST /api/folders. A parent folder must belong to
// the same notebook.
func (h *Handler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req CreateFolderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err, "create folder")
		return
	}
	f, err := h.svc.CreateFolder(r.Context(), req.Name, req.NotebookID, req.ParentID)
	if err != nil {
		writeError(w, err, "create folder", slog.String("notebook_id", req.NotebookID))
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

func (h *Handler) RenameFolder(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	var req NameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err, "rename folder")
		return
	}
	f, err := h.svc.RenameFolder(r.Context(), id, req.Name)
	if err != nil {
		writeError(w, err, "rename folder", slog.String("id", id))
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// DeleteFolder handles DELETE /api/folders/{id}. Subfolders go with it and
// every note inside moves to the trash.
func (h *Handler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	c, err := h.svc.DeleteFolder(r.Context(), id)
	if err != nil {
		writeError(w, err, "delete folder", slog.String("id", id))
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) FolderContents(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	c, err := h.svc.FolderContents(r.Context(), id)
	if err != nil {
		writeError(w, err, "folder contents", slog.String("id", id))
		return
	}
	writeJSON(w, http.StatusOK, c)
}
