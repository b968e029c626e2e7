package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Ask handles POST /api/chat.
//
//	@Summary		Ask a question about the active notes
//	@Tags			chat
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ChatRequest	true	"Question"
//	@Success		200		{object}	chat.Exchange	"Answered"
//	@Success		202		{object}	chat.Exchange	"Accepted; answer follows as a chat.answered event"
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/chat [post]
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err, "ask")
		return
	}
	if req.Async {
		ex, err := h.svc.Submit(r.Context(), req.Question)
		if err != nil {
			writeError(w, err, "ask")
			return
		}
		writeJSON(w, http.StatusAccepted, ex)
		return
	}
	ex, err := h.svc.Ask(r.Context(), req.Question)
	if err != nil {
		writeError(w, err, "ask")
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

func (h *Handler) ChatHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"messages": h.svc.ChatHistory(r.Context()),
		"loading":  h.svc.ChatLoading(),
	})
}

func (h *Handler) ChatMessage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	msg, err := h.svc.ChatMessage(r.Context(), id)
	if err != nil {
		writeError(w, err, "chat message", slog.String("id", id))
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

func (h *Handler) ClearChat(w http.ResponseWriter, r *http.Request) {
	h.svc.ClearChat(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
