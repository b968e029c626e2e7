// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes NoteWise tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/notewise/internal/apperr"
	"github.com/starford/notewise/internal/importer"
	"github.com/starford/notewise/internal/index"
	"github.com/starford/notewise/internal/models"
	"github.com/starford/notewise/internal/noteservice"
	"github.com/starford/notewise/internal/store"
)

const noteFormatURI = "notewise://note-format"

// Server wraps the MCP server with NoteWise tools.
type Server struct {
	mcp     *server.MCPServer
	svc     *noteservice.Service
	fetcher *fetcher
}

// New creates a new MCP server with all NoteWise tools registered.
func New(svc *noteservice.Service) *Server {
	s := &Server{svc: svc, fetcher: newFetcher()}

	s.mcp = server.NewMCPServer(
		"NoteWise",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_notebooks",
		mcp.WithDescription("List all notebooks."),
	), s.listNotebooks)

	s.mcp.AddTool(mcp.NewTool("create_notebook",
		mcp.WithDescription("Create a new notebook."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Notebook name")),
	), s.createNotebook)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List notes, pinned first. Filters are optional."),
		mcp.WithString("notebook_id", mcp.Description("Only notes of this notebook")),
		mcp.WithString("folder_id", mcp.Description("Only notes of this folder")),
		mcp.WithString("status", mcp.Description("active (default), archived or trashed")),
		mcp.WithString("query", mcp.Description("Case-insensitive filter on title and content")),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read a note with its numbered body lines."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note ID")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("create_note",
		mcp.WithDescription("Create a note in a notebook. Content with checklist markers "+
			"becomes a checklist; read the format via get_note_format or the "+
			noteFormatURI+" resource."),
		mcp.WithString("notebook_id", mcp.Required(), mcp.Description("Target notebook ID")),
		mcp.WithString("title", mcp.Required(), mcp.Description("Note title")),
		mcp.WithString("content", mcp.Description("Note body")),
		mcp.WithString("folder_id", mcp.Description("Optional folder inside the notebook")),
	), s.createNote)

	s.mcp.AddTool(mcp.NewTool("import_note",
		mcp.WithDescription("Import the contents of a .txt file as a note. The note gets an AI "+
			"summary; short file names are replaced by the summary as title."),
		mcp.WithString("filename", mcp.Required(), mcp.Description("File name ending in .txt")),
		mcp.WithString("content", mcp.Required(), mcp.Description("File contents (UTF-8)")),
		mcp.WithString("notebook_id", mcp.Description("Target notebook (defaults to the selected one)")),
		mcp.WithString("folder_id", mcp.Description("Optional folder inside the notebook")),
	), s.importNote)

	s.mcp.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Full-text search through note titles and bodies."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithString("notebook_id", mcp.Description("Restrict to a notebook")),
		mcp.WithString("status", mcp.Description("active (default), archived or trashed")),
	), s.searchNotes)

	s.mcp.AddTool(mcp.NewTool("query_notes",
		mcp.WithDescription("Ask a question answered only from the active notes. "+
			"The answer cites note titles and 1-based line numbers."),
		mcp.WithString("question", mcp.Required(), mcp.Description("The question")),
	), s.queryNotes)

	s.mcp.AddTool(mcp.NewTool("get_note_format",
		mcp.WithDescription("Returns how NoteWise interprets note content (text vs. checklist)."),
	), s.getNoteFormat)

	s.mcp.AddTool(mcp.NewTool("attach_image",
		mcp.WithDescription("Download an image (http/https URL or base64 data: URI) and attach it "+
			"to a note, replacing any previous image."),
		mcp.WithString("note_id", mcp.Required(), mcp.Description("Note ID")),
		mcp.WithString("url", mcp.Required(), mcp.Description("http(s) URL or data:image/...;base64,... URI")),
		mcp.WithString("filename", mcp.Description("Optional file name; its extension decides the type")),
	), s.attachImage)

	s.mcp.AddResource(
		mcp.NewResource(noteFormatURI, "Note Format",
			mcp.WithResourceDescription("How NoteWise interprets note content."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readNoteFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// jsonResult renders v as indented JSON text.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// errorResult reports domain errors to the model as tool errors.
func errorResult(err error) *mcp.CallToolResult {
	if errors.Is(err, apperr.ErrValidation) {
		return mcp.NewToolResultError(apperr.Reason(err))
	}
	return mcp.NewToolResultError(err.Error())
}

func (s *Server) listNotebooks(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.ListNotebooks(ctx))
}

func (s *Server) createNotebook(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	nb, err := s.svc.CreateNotebook(ctx, name)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(nb)
}

type noteSummary struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	Type       models.NoteType   `json:"type"`
	Status     models.NoteStatus `json:"status"`
	Pinned     bool              `json:"pinned"`
	NotebookID string            `json:"notebook_id"`
	FolderID   string            `json:"folder_id,omitempty"`
	Summary    string            `json:"summary,omitempty"`
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := models.NoteStatus(req.GetString("status", ""))
	if status != "" && !status.Valid() {
		return mcp.NewToolResultError(fmt.Sprintf("unknown status %q", status)), nil
	}
	notes := s.svc.ListNotes(ctx, store.NoteFilter{
		NotebookID: req.GetString("notebook_id", ""),
		FolderID:   req.GetString("folder_id", ""),
		Status:     status,
		Query:      req.GetString("query", ""),
	})
	out := make([]noteSummary, len(notes))
	for i, n := range notes {
		out[i] = noteSummary{
			ID:         n.ID,
			Title:      n.Title,
			Type:       n.Type,
			Status:     n.Status,
			Pinned:     n.Pinned,
			NotebookID: n.NotebookID,
			FolderID:   n.FolderID,
			Summary:    n.Summary,
		}
	}
	return jsonResult(out)
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	n, err := s.svc.GetNote(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	return mcp.NewToolResultText(renderNote(n.Note)), nil
}

func (s *Server) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	notebookID, err := req.RequireString("notebook_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	n, err := s.svc.CreateNote(ctx, models.NewNote{
		Title:      title,
		Content:    req.GetString("content", ""),
		NotebookID: notebookID,
		FolderID:   req.GetString("folder_id", ""),
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(n)
}

func (s *Server) importNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filename, err := req.RequireString("filename")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	notebookID, folderID := req.GetString("notebook_id", ""), req.GetString("folder_id", "")
	if notebookID == "" {
		sel := s.svc.UIState(ctx).Selection
		notebookID, folderID = sel.NotebookID, sel.FolderID
	}
	n, err := s.svc.ImportFile(ctx, importer.File{Name: filename, Content: []byte(content)}, notebookID, folderID)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(n)
}

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, index.SearchOptions{
		NotebookID: req.GetString("notebook_id", ""),
		Status:     req.GetString("status", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(results)
}

func (s *Server) queryNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := req.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ex, err := s.svc.Ask(ctx, question)
	if err != nil {
		return errorResult(err), nil
	}
	if ex.Answer.Content.Error != "" {
		return mcp.NewToolResultError(ex.Answer.Content.Error), nil
	}
	return jsonResult(ex.Answer.Content)
}

func (s *Server) getNoteFormat(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(NoteFormatContract), nil
}

func (s *Server) readNoteFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      noteFormatURI,
			MIMEType: "text/markdown",
			Text:     NoteFormatContract,
		},
	}, nil
}
