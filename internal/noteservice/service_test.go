package noteservice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/starford/notewise/internal/ai"
	"github.com/starford/notewise/internal/apperr"
	"github.com/starford/notewise/internal/chat"
	"github.com/starford/notewise/internal/importer"
	"github.com/starford/notewise/internal/index"
	"github.com/starford/notewise/internal/models"
	"github.com/starford/notewise/internal/sse"
	"github.com/starford/notewise/internal/store"
	"github.com/starford/notewise/internal/testutil"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
	chat   []sse.Event
}

func (p *recordingPublisher) PublishChange(entity, kind, id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, entity+"."+kind+":"+id)
}

func (p *recordingPublisher) Publish(e sse.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.chat = append(p.chat, e)
}

func (p *recordingPublisher) has(event string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, e := range p.events {
		if e == event {
			return true
		}
	}
	return false
}

type env struct {
	svc    *Service
	state  *store.State
	db     *index.DB
	events *recordingPublisher
	dir    string
}

func newEnv(t *testing.T, p ai.Provider) env {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	clock := testutil.NewClock(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC), time.Second)
	state := store.New(store.WithClock(clock.Now))
	client := ai.NewClient(p)
	dir, attachments := testutil.TestDir(t)
	db := testutil.TestDB(t)
	events := &recordingPublisher{}
	svc := New(Deps{
		State:       state,
		Chat:        chat.New(client, state, logger),
		Importer:    importer.New(client, logger),
		Index:       db,
		Attachments: attachments,
		Events:      events,
		Logger:      logger,
	})
	return env{svc: svc, state: state, db: db, events: events, dir: dir}
}

func (e env) notebook(t *testing.T) models.Notebook {
	t.Helper()
	nb, err := e.svc.CreateNotebook(context.Background(), "NB")
	if err != nil {
		t.Fatal(err)
	}
	return nb
}

func TestCreateNote_IndexedAndPublished(t *testing.T) {
	e := newEnv(t, testutil.NewStubProvider())
	ctx := context.Background()
	nb := e.notebook(t)

	n, err := e.svc.CreateNote(ctx, models.NewNote{Title: "Groceries", Content: "- oat milk", NotebookID: nb.ID})
	if err != nil {
		t.Fatalf("CreateNote: %v", err)
	}
	if n.Checksum == "" || n.Checksum != ETag(n.Note) {
		t.Errorf("checksum = %q", n.Checksum)
	}
	results, err := e.svc.Search(ctx, "oat", index.SearchOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].ID != n.ID {
		t.Errorf("search = %+v", results)
	}
	if !e.events.has("note.created:" + n.ID) {
		t.Errorf("events = %v", e.events.events)
	}
}

func TestUpdateNote_IfMatch(t *testing.T) {
	e := newEnv(t, testutil.NewStubProvider())
	ctx := context.Background()
	nb := e.notebook(t)
	n, _ := e.svc.CreateNote(ctx, models.NewNote{Title: "t", NotebookID: nb.ID})

	title := "new"
	if _, err := e.svc.UpdateNote(ctx, n.ID, models.NotePatch{Title: &title}, "stale"); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	got, err := e.svc.UpdateNote(ctx, n.ID, models.NotePatch{Title: &title}, n.Checksum)
	if err != nil {
		t.Fatalf("UpdateNote: %v", err)
	}
	if got.Title != "new" || got.Checksum == n.Checksum {
		t.Errorf("got %+v", got)
	}
}

func TestUpdateNote_IfMatchSeesOtherWrites(t *testing.T) {
	e := newEnv(t, testutil.NewStubProvider())
	ctx := context.Background()
	nb := e.notebook(t)
	n, _ := e.svc.CreateNote(ctx, models.NewNote{Title: "t", NotebookID: nb.ID})

	if _, err := e.svc.TogglePin(ctx, n.ID); err != nil {
		t.Fatal(err)
	}
	title := "new"
	if _, err := e.svc.UpdateNote(ctx, n.ID, models.NotePatch{Title: &title}, n.Checksum); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict after pin, got %v", err)
	}
	got, _ := e.state.Note(n.ID)
	if got.Title != "t" {
		t.Errorf("title = %q, want unchanged", got.Title)
	}
}

func TestReindex_StaleNoteWritesCurrentRow(t *testing.T) {
	e := newEnv(t, testutil.NewStubProvider())
	ctx := context.Background()
	nb := e.notebook(t)
	stale, _ := e.svc.CreateNote(ctx, models.NewNote{Title: "t", NotebookID: nb.ID})
	fresh, err := e.svc.SetColor(ctx, stale.ID, "blue")
	if err != nil {
		t.Fatal(err)
	}

	e.svc.reindex(stale.Note)

	sum, err := e.db.GetChecksum(stale.ID)
	if err != nil {
		t.Fatal(err)
	}
	if sum != fresh.Checksum {
		t.Errorf("index checksum = %q, want current %q", sum, fresh.Checksum)
	}
}

func TestTrashedNoteLeavesActiveSearch(t *testing.T) {
	e := newEnv(t, testutil.NewStubProvider())
	ctx := context.Background()
	nb := e.notebook(t)
	n, _ := e.svc.CreateNote(ctx, models.NewNote{Title: "secret", Content: "zebra", NotebookID: nb.ID})

	if _, err := e.svc.TrashNote(ctx, n.ID); err != nil {
		t.Fatal(err)
	}
	active, _ := e.svc.Search(ctx, "zebra", index.SearchOptions{})
	trashed, _ := e.svc.Search(ctx, "zebra", index.SearchOptions{Status: "trashed"})
	if len(active) != 0 || len(trashed) != 1 {
		t.Errorf("active=%v trashed=%v", active, trashed)
	}
	if err := e.svc.PurgeNote(ctx, n.ID); err != nil {
		t.Fatal(err)
	}
	trashed, _ = e.svc.Search(ctx, "zebra", index.SearchOptions{Status: "trashed"})
	if len(trashed) != 0 {
		t.Error("purged note still indexed")
	}
}

func TestDeleteNotebook_Deindexes(t *testing.T) {
	e := newEnv(t, testutil.NewStubProvider())
	ctx := context.Background()
	nb := e.notebook(t)
	n, _ := e.svc.CreateNote(ctx, models.NewNote{Title: "x", Content: "walrus", NotebookID: nb.ID})

	c, err := e.svc.DeleteNotebook(ctx, nb.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.RemovedNotes) != 1 {
		t.Errorf("cascade = %+v", c)
	}
	cs, _ := e.db.GetChecksum(n.ID)
	if cs != "" {
		t.Error("note of deleted notebook still indexed")
	}
	if !e.events.has("note.deleted:"+n.ID) || !e.events.has("notebook.deleted:"+nb.ID) {
		t.Errorf("events = %v", e.events.events)
	}
}

func TestDeleteFolder_PublishesTrashedNotes(t *testing.T) {
	e := newEnv(t, testutil.NewStubProvider())
	ctx := context.Background()
	nb := e.notebook(t)
	f, _ := e.svc.CreateFolder(ctx, "F", nb.ID, "")
	n, _ := e.svc.CreateNote(ctx, models.NewNote{Title: "in", NotebookID: nb.ID, FolderID: f.ID})

	if _, err := e.svc.DeleteFolder(ctx, f.ID); err != nil {
		t.Fatal(err)
	}
	if !e.events.has("note.updated:"+n.ID) || !e.events.has("folder.deleted:"+f.ID) {
		t.Errorf("events = %v", e.events.events)
	}
	got, _ := e.svc.GetNote(ctx, n.ID)
	if got.Status != models.NoteStatusTrashed {
		t.Errorf("status = %s", got.Status)
	}
}

func TestImportFile(t *testing.T) {
	e := newEnv(t, testutil.NewStubProvider(`{"summary":"Errands for the week"}`))
	ctx := context.Background()
	nb := e.notebook(t)

	n, err := e.svc.ImportFile(ctx, importer.File{Name: "todo.txt", Content: []byte("- Buy milk\n[x] Pay bills\n[] Call mom")}, nb.ID, "")
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if n.Type != models.NoteTypeList || len(n.Items) != 3 {
		t.Errorf("note = %+v", n)
	}
	if n.Summary != "Errands for the week" {
		t.Errorf("summary = %q", n.Summary)
	}
	if e.state.Selection().NoteID != n.ID {
		t.Error("imported note should be selected")
	}
}

func TestImportFile_RequiresNotebook(t *testing.T) {
	e := newEnv(t, testutil.NewStubProvider())
	_, err := e.svc.ImportFile(context.Background(), importer.File{Name: "a.txt", Content: []byte("x")}, "", "")
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestInboxHandler_CreatesNotebook(t *testing.T) {
	e := newEnv(t, testutil.NewStubProvider(`{"summary":"s"}`))
	h := e.svc.InboxHandler("Inbox")
	if err := h(context.Background(), importer.File{Name: "first.txt", Content: []byte("hello")}); err != nil {
		t.Fatal(err)
	}
	if err := h(context.Background(), importer.File{Name: "second.txt", Content: []byte("again")}); err != nil {
		t.Fatal(err)
	}
	nbs := e.svc.ListNotebooks(context.Background())
	if len(nbs) != 1 || nbs[0].Name != "Inbox" {
		t.Errorf("notebooks = %+v", nbs)
	}
}

func TestSetImage(t *testing.T) {
	e := newEnv(t, testutil.NewStubProvider())
	ctx := context.Background()
	nb := e.notebook(t)
	n, _ := e.svc.CreateNote(ctx, models.NewNote{Title: "pic", NotebookID: nb.ID})

	if _, err := e.svc.SetImage(ctx, n.ID, "evil.exe", []byte("x")); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	first, err := e.svc.SetImage(ctx, n.ID, "cat.PNG", []byte("png-bytes"))
	if err != nil {
		t.Fatalf("SetImage: %v", err)
	}
	name := filepath.Base(first.ImageURL)
	path, err := e.svc.AttachmentPath(name)
	if err != nil {
		t.Fatal(err)
	}
	if data, _ := os.ReadFile(path); string(data) != "png-bytes" {
		t.Errorf("stored = %q", data)
	}

	if _, err := e.svc.SetImage(ctx, n.ID, "dog.jpg", []byte("jpg")); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(e.dir, name)); !os.IsNotExist(err) {
		t.Error("replaced image should be deleted")
	}
}

func TestAttachmentPath_RejectsTraversal(t *testing.T) {
	e := newEnv(t, testutil.NewStubProvider())
	if _, err := e.svc.AttachmentPath("../secret"); err == nil {
		t.Error("expected error")
	}
}

func TestResolveReference_Ambiguous(t *testing.T) {
	e := newEnv(t, testutil.NewStubProvider())
	ctx := context.Background()
	nb := e.notebook(t)
	a, _ := e.svc.CreateNote(ctx, models.NewNote{Title: "Plan", NotebookID: nb.ID})
	_, _ = e.svc.CreateNote(ctx, models.NewNote{Title: "Plan", NotebookID: nb.ID})
	_, _ = e.svc.CreateNote(ctx, models.NewNote{Title: "Other", NotebookID: nb.ID})

	r := e.svc.ResolveReference(ctx, "Plan")
	if !r.Ambiguous || len(r.Candidates) != 2 {
		t.Errorf("resolution = %+v", r)
	}
	r = e.svc.ResolveReference(ctx, "Other")
	if r.Ambiguous || len(r.Candidates) != 1 {
		t.Errorf("resolution = %+v", r)
	}

	h, err := e.svc.Highlight(ctx, a.ID, []int{1, 3})
	if err != nil {
		t.Fatal(err)
	}
	ui := e.svc.UIState(ctx)
	if ui.Selection.NoteID != a.ID || ui.Highlight == nil || len(h.Lines) != 2 {
		t.Errorf("ui = %+v", ui)
	}
}

func TestSubmit_PublishesAnswer(t *testing.T) {
	e := newEnv(t, testutil.NewStubProvider(`{"answer":"42","references":[]}`))
	ctx, cancel := context.WithCancel(context.Background())
	nb := e.notebook(t)
	_, _ = e.svc.CreateNote(ctx, models.NewNote{Title: "n", Content: "c", NotebookID: nb.ID})

	ex, err := e.svc.Submit(ctx, "meaning?")
	if err != nil {
		t.Fatal(err)
	}
	cancel()
	e.svc.Wait()

	msg, err := e.svc.ChatMessage(context.Background(), ex.Answer.ID)
	if err != nil {
		t.Fatal(err)
	}
	if msg.Content.Answer != "42" {
		t.Errorf("answer = %+v", msg.Content)
	}
	if e.svc.ChatLoading() {
		t.Error("should not be loading")
	}
	if len(e.events.chat) != 1 || e.events.chat[0].Type != EventChatAnswered {
		t.Errorf("chat events = %+v", e.events.chat)
	}
}

func TestSync_RebuildsIndex(t *testing.T) {
	e := newEnv(t, testutil.NewStubProvider())
	ctx := context.Background()
	nb := e.notebook(t)
	_, _ = e.state.AddNote(models.NewNote{Title: "direct", Content: "narwhal", NotebookID: nb.ID})
	_ = e.db.UpsertNote(index.NoteRow{ID: "ghost", NotebookID: nb.ID, Title: "ghost"})

	stats, err := e.svc.Sync(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Indexed != 1 || stats.Removed != 1 {
		t.Errorf("stats = %+v", stats)
	}
	results, _ := e.svc.Search(ctx, "narwhal", index.SearchOptions{})
	if len(results) != 1 {
		t.Errorf("results = %+v", results)
	}
}
