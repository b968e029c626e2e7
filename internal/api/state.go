package api

import (
	"net/http"
)

// Tree handles GET /api/tree.
func (h *Handler) Tree(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"items": h.svc.Tree(r.Context()),
	})
}

// State handles GET /api/state: selection, editing note, search term,
// highlight and chat loading flag.
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.UIState(r.Context()))
}

func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err, "select")
		return
	}
	sel, err := h.svc.Select(r.Context(), req.Type, req.ID)
	if err != nil {
		writeError(w, err, "select")
		return
	}
	writeJSON(w, http.StatusOK, sel)
}

func (h *Handler) StartEditing(w http.ResponseWriter, r *http.Request) {
	var req EditingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err, "start editing")
		return
	}
	if err := h.svc.StartEditing(r.Context(), req.NoteID); err != nil {
		writeError(w, err, "start editing")
		return
	}
	writeJSON(w, http.StatusOK, h.svc.UIState(r.Context()))
}

func (h *Handler) StopEditing(w http.ResponseWriter, r *http.Request) {
	h.svc.StopEditing(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SetSearchTerm(w http.ResponseWriter, r *http.Request) {
	var req SearchTermRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err, "set search term")
		return
	}
	h.svc.SetSearchTerm(r.Context(), req.Term)
	writeJSON(w, http.StatusOK, h.svc.UIState(r.Context()))
}

// Highlight handles POST /api/highlight. The note becomes selected and the
// given 1-based lines are marked.
func (h *Handler) Highlight(w http.ResponseWriter, r *http.Request) {
	var req HighlightRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err, "highlight")
		return
	}
	hl, err := h.svc.Highlight(r.Context(), req.NoteID, req.Lines)
	if err != nil {
		writeError(w, err, "highlight")
		return
	}
	writeJSON(w, http.StatusOK, hl)
}

func (h *Handler) ClearHighlight(w http.ResponseWriter, r *http.Request) {
	h.svc.ClearHighlight(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// ResolveReference handles GET /api/references?title=. It lists the active
// notes a cited title may refer to.
func (h *Handler) ResolveReference(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	if title == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'title' is required"))
		return
	}
	writeJSON(w, http.StatusOK, h.svc.ResolveReference(r.Context(), title))
}
