package importer

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/notewise/internal/storage"
)

// ImportedDir is the inbox sub-directory that processed files move to.
const ImportedDir = "imported"

const debounce = 200 * time.Millisecond

// Handler imports one file. Returning an error leaves the file in the inbox.
type Handler func(ctx context.Context, f File) error

// Watch imports every .txt file present in the inbox, then processes new
// or rewritten files until ctx is cancelled. Events are debounced so a file
// that is still being written is imported once.
func Watch(ctx context.Context, inbox storage.Provider, handle Handler, logger *slog.Logger) error {
	root, err := inbox.Abs("")
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(root); err != nil {
		return fmt.Errorf("importer: watch %s: %w", root, err)
	}
	logger.Info("inbox: started", slog.String("root", root))

	metas, err := inbox.List("", Ext)
	if err != nil {
		return err
	}
	for _, m := range metas {
		importOne(ctx, inbox, m.Path, handle, logger)
	}

	dirty := make(map[string]struct{})
	var timer *time.Timer
	var timerCh <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerCh = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("inbox: stopped")
			return nil

		case <-timerCh:
			for name := range dirty {
				importOne(ctx, inbox, name, handle, logger)
				delete(dirty, name)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			name := filepath.Base(ev.Name)
			if strings.HasPrefix(name, ".") || !strings.EqualFold(filepath.Ext(name), Ext) {
				continue
			}
			dirty[name] = struct{}{}
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("inbox: watcher error", slog.String("error", watchErr.Error()))
		}
	}
}

func importOne(ctx context.Context, inbox storage.Provider, name string, handle Handler, logger *slog.Logger) {
	data, err := inbox.Read(name)
	if err != nil {
		// Already moved or deleted.
		logger.Debug("inbox: read skipped", slog.String("file", name), slog.String("error", err.Error()))
		return
	}
	if err := handle(ctx, File{Name: name, Content: data}); err != nil {
		logger.Warn("inbox: import failed", slog.String("file", name), slog.String("error", err.Error()))
		return
	}
	target, err := importedName(inbox, name)
	if err != nil {
		logger.Warn("inbox: resolve target failed", slog.String("file", name), slog.String("error", err.Error()))
		return
	}
	if err := inbox.Move(name, target); err != nil {
		logger.Warn("inbox: move failed", slog.String("file", name), slog.String("error", err.Error()))
		return
	}
	logger.Info("inbox: imported", slog.String("file", name), slog.String("moved_to", target))
}

// importedName picks a free path under ImportedDir, suffixing a timestamp
// when a file of the same name was imported before.
func importedName(inbox storage.Provider, name string) (string, error) {
	target := ImportedDir + "/" + name
	exists, err := inbox.Exists(target)
	if err != nil {
		return "", err
	}
	if !exists {
		return target, nil
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	return fmt.Sprintf("%s/%s-%d%s", ImportedDir, stem, time.Now().UnixNano(), ext), nil
}
