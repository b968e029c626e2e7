package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/notewise/internal/noteservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *noteservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Route("/notebooks", func(r chi.Router) {
		r.Get("/", h.ListNotebooks)
		r.Post("/", h.CreateNotebook)
		r.Get("/{id}", h.GetNotebook)
		r.Put("/{id}", h.RenameNotebook)
		r.Delete("/{id}", h.DeleteNotebook)
		r.Get("/{id}/contents", h.NotebookContents)
		r.Get("/{id}/folders", h.ListFolders)
	})

	r.Route("/folders", func(r chi.Router) {
		r.Post("/", h.CreateFolder)
		r.Get("/{id}", h.GetFolder)
		r.Put("/{id}", h.RenameFolder)
		r.Delete("/{id}", h.DeleteFolder)
		r.Get("/{id}/contents", h.FolderContents)
	})

	r.Route("/notes", func(r chi.Router) {
		r.Get("/", h.ListNotes)
		r.Post("/", h.CreateNote)
		r.Get("/{id}", h.GetNote)
		r.Patch("/{id}", h.UpdateNote)
		r.Delete("/{id}", h.TrashNote)
		r.Post("/{id}/archive", h.ArchiveNote)
		r.Post("/{id}/restore", h.RestoreNote)
		r.Post("/{id}/purge", h.PurgeNote)
		r.Post("/{id}/pin", h.TogglePin)
		r.Put("/{id}/color", h.SetColor)
		r.Put("/{id}/image", h.UploadImage)
		r.Put("/{id}/image-url", h.SetImageURL)
		r.Post("/{id}/items", h.AddItem)
		r.Put("/{id}/items/{itemID}", h.UpdateItem)
		r.Delete("/{id}/items/{itemID}", h.RemoveItem)
		r.Post("/{id}/items/{itemID}/toggle", h.ToggleItem)
	})

	r.Delete("/trash", h.EmptyTrash)
	r.Post("/import", h.Import)

	// Search and navigation.
	r.Get("/search", h.Search)
	r.Get("/tree", h.Tree)
	r.Get("/state", h.State)
	r.Post("/select", h.Select)
	r.Post("/editing", h.StartEditing)
	r.Delete("/editing", h.StopEditing)
	r.Put("/search-term", h.SetSearchTerm)
	r.Post("/highlight", h.Highlight)
	r.Delete("/highlight", h.ClearHighlight)
	r.Get("/references", h.ResolveReference)

	// AI chat.
	r.Get("/chat", h.ChatHistory)
	r.Post("/chat", h.Ask)
	r.Delete("/chat", h.ClearChat)
	r.Get("/chat/{id}", h.ChatMessage)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
