package mcpserver

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/notewise/internal/ai"
	"github.com/starford/notewise/internal/chat"
	"github.com/starford/notewise/internal/importer"
	"github.com/starford/notewise/internal/models"
	"github.com/starford/notewise/internal/noteservice"
	"github.com/starford/notewise/internal/store"
	"github.com/starford/notewise/internal/testutil"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func testServer(t *testing.T, p ai.Provider) (*Server, *noteservice.Service) {
	t.Helper()
	if p == nil {
		p = testutil.NewStubProvider()
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	state := store.New()
	client := ai.NewClient(p)
	_, attachments := testutil.TestDir(t)
	svc := noteservice.New(noteservice.Deps{
		State:       state,
		Chat:        chat.New(client, state, logger),
		Importer:    importer.New(client, logger),
		Index:       testutil.TestDB(t),
		Attachments: attachments,
		Logger:      logger,
	})
	return New(svc), svc
}

func callTool(t *testing.T, srv *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" helper, so handlers are invoked directly.
	handlers := map[string]func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){
		"list_notebooks":  srv.listNotebooks,
		"create_notebook": srv.createNotebook,
		"list_notes":      srv.listNotes,
		"read_note":       srv.readNote,
		"create_note":     srv.createNote,
		"import_note":     srv.importNote,
		"search_notes":    srv.searchNotes,
		"query_notes":     srv.queryNotes,
		"get_note_format": srv.getNoteFormat,
		"attach_image":    srv.attachImage,
	}
	h, ok := handlers[name]
	if !ok {
		t.Fatalf("unknown tool: %s", name)
	}
	result, err := h(ctx, req)
	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func mustNotebook(t *testing.T, srv *Server) models.Notebook {
	t.Helper()
	r := callTool(t, srv, "create_notebook", map[string]any{"name": "Work"})
	if r.IsError {
		t.Fatalf("create_notebook: %s", resultText(r))
	}
	var nb models.Notebook
	if err := json.Unmarshal([]byte(resultText(r)), &nb); err != nil {
		t.Fatal(err)
	}
	return nb
}

func mustNote(t *testing.T, srv *Server, notebookID, title, content string) noteservice.NoteDetail {
	t.Helper()
	r := callTool(t, srv, "create_note", map[string]any{
		"notebook_id": notebookID, "title": title, "content": content,
	})
	if r.IsError {
		t.Fatalf("create_note: %s", resultText(r))
	}
	var n noteservice.NoteDetail
	if err := json.Unmarshal([]byte(resultText(r)), &n); err != nil {
		t.Fatal(err)
	}
	return n
}

func TestCreateAndReadNote(t *testing.T) {
	srv, _ := testServer(t, nil)
	nb := mustNotebook(t, srv)
	n := mustNote(t, srv, nb.ID, "Shopping", "- Milk\n[x] Bread")
	if n.Type != models.NoteTypeList {
		t.Errorf("type = %s", n.Type)
	}

	text := resultText(callTool(t, srv, "read_note", map[string]any{"id": n.ID}))
	for _, want := range []string{"title: Shopping", "type: list", "1: [] Milk", "2: [x] Bread"} {
		if !strings.Contains(text, want) {
			t.Errorf("read result missing %q:\n%s", want, text)
		}
	}
}

func TestCreateNote_UnknownNotebook(t *testing.T) {
	srv, _ := testServer(t, nil)
	r := callTool(t, srv, "create_note", map[string]any{"notebook_id": "nope", "title": "x"})
	if !r.IsError {
		t.Error("expected error for unknown notebook")
	}
}

func TestReadNoteMissing(t *testing.T) {
	srv, _ := testServer(t, nil)
	r := callTool(t, srv, "read_note", map[string]any{"id": "nope"})
	if !r.IsError {
		t.Error("expected error for missing note")
	}
}

func TestListNotebooksAndNotes(t *testing.T) {
	srv, _ := testServer(t, nil)
	nb := mustNotebook(t, srv)
	mustNote(t, srv, nb.ID, "a", "")
	mustNote(t, srv, nb.ID, "b", "")

	var nbs []models.Notebook
	_ = json.Unmarshal([]byte(resultText(callTool(t, srv, "list_notebooks", nil))), &nbs)
	if len(nbs) != 1 || nbs[0].Name != "Work" {
		t.Errorf("notebooks = %+v", nbs)
	}

	var notes []noteSummary
	_ = json.Unmarshal([]byte(resultText(callTool(t, srv, "list_notes", map[string]any{"notebook_id": nb.ID}))), &notes)
	if len(notes) != 2 {
		t.Errorf("notes = %+v", notes)
	}

	r := callTool(t, srv, "list_notes", map[string]any{"status": "lost"})
	if !r.IsError {
		t.Error("expected error for unknown status")
	}
}

func TestSearchNotes(t *testing.T) {
	srv, _ := testServer(t, nil)
	nb := mustNotebook(t, srv)
	n := mustNote(t, srv, nb.ID, "Trip", "pack the sunscreen")

	text := resultText(callTool(t, srv, "search_notes", map[string]any{"query": "sunscreen"}))
	if !strings.Contains(text, n.ID) {
		t.Errorf("search result = %s", text)
	}
}

func TestImportNote(t *testing.T) {
	srv, svc := testServer(t, testutil.NewStubProvider(`{"summary":"Errands for the week"}`))
	nb := mustNotebook(t, srv)
	if _, err := svc.Select(context.Background(), models.TreeItemNotebook, nb.ID); err != nil {
		t.Fatal(err)
	}

	r := callTool(t, srv, "import_note", map[string]any{
		"filename": "todo.txt",
		"content":  "- Buy milk\n[x] Pay bills\n[] Call mom",
	})
	if r.IsError {
		t.Fatalf("import_note: %s", resultText(r))
	}
	var n noteservice.NoteDetail
	_ = json.Unmarshal([]byte(resultText(r)), &n)
	if n.Title != "Errands for the week" || len(n.Items) != 3 || n.NotebookID != nb.ID {
		t.Errorf("note = %+v", n)
	}

	r = callTool(t, srv, "import_note", map[string]any{"filename": "notes.md", "content": "x"})
	if !r.IsError || !strings.Contains(resultText(r), ".txt") {
		t.Errorf("import .md = %q", resultText(r))
	}
}

func TestQueryNotes(t *testing.T) {
	p := testutil.NewStubProvider(`{"answer":"Bread is bought.","references":[{"noteTitle":"Shopping","lines":[2]}]}`)
	srv, _ := testServer(t, p)
	nb := mustNotebook(t, srv)
	mustNote(t, srv, nb.ID, "Shopping", "- Milk\n[x] Bread")

	r := callTool(t, srv, "query_notes", map[string]any{"question": "What did I buy?"})
	if r.IsError {
		t.Fatalf("query_notes: %s", resultText(r))
	}
	var content models.ChatMessageContent
	_ = json.Unmarshal([]byte(resultText(r)), &content)
	if content.Answer != "Bread is bought." || len(content.References) != 1 || content.References[0].NoteTitle != "Shopping" {
		t.Errorf("content = %+v", content)
	}
}

func TestQueryNotes_ProviderFailure(t *testing.T) {
	srv, _ := testServer(t, testutil.FailingProvider(ai.ErrProviderDisabled))
	nb := mustNotebook(t, srv)
	mustNote(t, srv, nb.ID, "n", "c")

	r := callTool(t, srv, "query_notes", map[string]any{"question": "?"})
	if !r.IsError || resultText(r) != chat.FailureMessage {
		t.Errorf("result = %q", resultText(r))
	}
}

func TestGetNoteFormat(t *testing.T) {
	srv, _ := testServer(t, nil)
	text := resultText(callTool(t, srv, "get_note_format", nil))
	if !strings.Contains(text, "[x] ") {
		t.Error("format should document checklist markers")
	}
	contents, err := srv.readNoteFormatResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil || len(contents) != 1 {
		t.Fatalf("resource = %v, %v", contents, err)
	}
}

func TestAttachImage_DataURI(t *testing.T) {
	srv, _ := testServer(t, nil)
	nb := mustNotebook(t, srv)
	n := mustNote(t, srv, nb.ID, "pic", "")

	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
	r := callTool(t, srv, "attach_image", map[string]any{"note_id": n.ID, "url": uri})
	if r.IsError {
		t.Fatalf("attach_image: %s", resultText(r))
	}
	if !strings.Contains(resultText(r), noteservice.AttachmentPrefix) {
		t.Errorf("result = %s", resultText(r))
	}
}

func TestAttachImage_MagicMismatch(t *testing.T) {
	srv, _ := testServer(t, nil)
	nb := mustNotebook(t, srv)
	n := mustNote(t, srv, nb.ID, "pic", "")

	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("not an image"))
	r := callTool(t, srv, "attach_image", map[string]any{"note_id": n.ID, "url": uri})
	if !r.IsError {
		t.Error("expected magic byte mismatch")
	}
}

func TestAttachImage_HTTP(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(pngBytes)
	}))
	defer ts.Close()

	srv, _ := testServer(t, nil)
	nb := mustNotebook(t, srv)
	n := mustNote(t, srv, nb.ID, "pic", "")

	r := callTool(t, srv, "attach_image", map[string]any{"note_id": n.ID, "url": ts.URL + "/cat.png"})
	if !r.IsError || !strings.Contains(resultText(r), "loopback") {
		t.Fatalf("loopback should be blocked, got %q", resultText(r))
	}

	srv.fetcher.checkHost = func(string) error { return nil }
	r = callTool(t, srv, "attach_image", map[string]any{"note_id": n.ID, "url": ts.URL + "/cat.png"})
	if r.IsError {
		t.Fatalf("attach_image: %s", resultText(r))
	}
}

func TestDecodeDataURI_Errors(t *testing.T) {
	for _, uri := range []string{
		"data:image/png;base64",
		"data:image/png,plain",
		"data:text/plain;base64,aGVsbG8=",
	} {
		if _, _, err := decodeDataURI(uri); err == nil {
			t.Errorf("expected error for %q", uri)
		}
	}
}
