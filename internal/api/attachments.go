package api

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/starford/notewise/internal/importer"
	"github.com/starford/notewise/internal/noteservice"
)

const (
	maxUploadBytes = noteservice.MaxImageSize + 1<<20
	maxImportBytes = 5 << 20
)

// AttachmentHandler serves uploaded note images.
type AttachmentHandler struct {
	svc *noteservice.Service
}

// NewAttachmentHandler creates a handler backed by the service's attachment store.
func NewAttachmentHandler(svc *noteservice.Service) *AttachmentHandler {
	return &AttachmentHandler{svc: svc}
}

// ServeFile handles GET /attachments/{filename}.
func (h *AttachmentHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	abs, err := h.svc.AttachmentPath(filename)
	if err != nil {
		writeError(w, err, "serve attachment", slog.String("filename", filename))
		return
	}
	if _, statErr := os.Stat(abs); errors.Is(statErr, fs.ErrNotExist) {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, abs)
}

// readUpload reads the multipart field "file" with a size limit.
func readUpload(w http.ResponseWriter, r *http.Request, limit int64) (string, []byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
		return "", nil, false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'file' field in multipart form"))
		return "", nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read file"))
		return "", nil, false
	}
	return header.Filename, data, true
}

// UploadImage handles PUT /api/notes/{id}/image (multipart/form-data, field "file").
//
//	@Summary		Attach an image to a note
//	@Tags			notes
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id		path		string	true	"Note ID"
//	@Param			file	formData	file	true	"Image (png, jpg, gif, webp)"
//	@Success		200		{object}	NoteDetail
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id}/image [put]
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	name, data, ok := readUpload(w, r, maxUploadBytes)
	if !ok {
		return
	}
	note, err := h.svc.SetImage(r.Context(), id, name, data)
	if err != nil {
		writeError(w, err, "upload image", slog.String("id", id))
		return
	}
	writeNote(w, http.StatusOK, note)
}

// Import handles POST /api/import (multipart/form-data, field "file").
// Without notebook_id/folder_id form values the current selection is used.
//
//	@Summary		Import a .txt file as a note
//	@Tags			notes
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file		formData	file	true	"Plain-text file"
//	@Param			notebook_id	formData	string	false	"Target notebook"
//	@Param			folder_id	formData	string	false	"Target folder"
//	@Success		201			{object}	NoteDetail
//	@Failure		400			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/import [post]
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	name, data, ok := readUpload(w, r, maxImportBytes)
	if !ok {
		return
	}
	notebookID, folderID := r.FormValue("notebook_id"), r.FormValue("folder_id")
	if notebookID == "" {
		sel := h.svc.UIState(r.Context()).Selection
		notebookID, folderID = sel.NotebookID, sel.FolderID
	}
	note, err := h.svc.ImportFile(r.Context(), importer.File{Name: name, Content: data}, notebookID, folderID)
	if err != nil {
		writeError(w, err, "import", slog.String("filename", name))
		return
	}
	writeNote(w, http.StatusCreated, note)
}
