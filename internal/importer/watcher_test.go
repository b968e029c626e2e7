package importer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/starford/notewise/internal/testutil"
)

type recorder struct {
	mu    sync.Mutex
	files []File
	fail  bool
}

func (r *recorder) handle(_ context.Context, f File) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("rejected")
	}
	r.files = append(r.files, f)
	return nil
}

func (r *recorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, f := range r.files {
		out = append(out, f.Name)
	}
	return out
}

func TestWatch_ImportsExistingAndNewFiles(t *testing.T) {
	dir, inbox := testutil.TestDir(t)
	_ = os.WriteFile(filepath.Join(dir, "early.txt"), []byte("- a"), 0o644)
	_ = os.WriteFile(filepath.Join(dir, "skip.md"), []byte("# no"), 0o644)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rec := &recorder{}
	go Watch(ctx, inbox, rec.handle, discard())

	testutil.Eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		_, err := os.Stat(filepath.Join(dir, ImportedDir, "early.txt"))
		return err == nil
	}, "existing file not imported")

	_ = os.WriteFile(filepath.Join(dir, "late.txt"), []byte("text"), 0o644)
	testutil.Eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		_, err := os.Stat(filepath.Join(dir, ImportedDir, "late.txt"))
		return err == nil
	}, "new file not imported")

	for _, n := range rec.names() {
		if n == "skip.md" {
			t.Error("non-txt file should be ignored")
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "skip.md")); err != nil {
		t.Error("non-txt file should stay in the inbox")
	}
}

func TestWatch_FailedImportStaysInInbox(t *testing.T) {
	dir, inbox := testutil.TestDir(t)
	_ = os.WriteFile(filepath.Join(dir, "bad.txt"), []byte("x"), 0o644)

	ctx, cancel := context.WithCancel(context.Background())
	rec := &recorder{fail: true}
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, inbox, rec.handle, discard()) }()

	time.Sleep(300 * time.Millisecond)
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "bad.txt")); err != nil {
		t.Error("failed file should remain in the inbox")
	}
}

func TestImportedName_AvoidsOverwrite(t *testing.T) {
	dir, inbox := testutil.TestDir(t)
	_ = os.MkdirAll(filepath.Join(dir, ImportedDir), 0o755)
	_ = os.WriteFile(filepath.Join(dir, ImportedDir, "dup.txt"), []byte("old"), 0o644)

	got, err := importedName(inbox, "dup.txt")
	if err != nil {
		t.Fatal(err)
	}
	if got == ImportedDir+"/dup.txt" || filepath.Ext(got) != ".txt" {
		t.Errorf("target = %q", got)
	}
}

func TestImportedName_FreeName(t *testing.T) {
	_, inbox := testutil.TestDir(t)
	got, err := importedName(inbox, "fresh.txt")
	if err != nil {
		t.Fatal(err)
	}
	if got != ImportedDir+"/fresh.txt" {
		t.Errorf("target = %q", got)
	}
}
