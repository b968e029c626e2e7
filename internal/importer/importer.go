// Package importer turns plain-text files into notes, asking the AI for a
// summary along the way, and watches an inbox directory for new files.
package importer

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/starford/notewise/internal/ai"
	"github.com/starford/notewise/internal/apperr"
	"github.com/starford/notewise/internal/models"
	"github.com/starford/notewise/internal/parser"
)

const (
	// Ext is the only accepted file extension.
	Ext = ".txt"

	shortTitle    = 5
	maxTitleRunes = 50
)

// Summarizer produces a topic summary of note text.
type Summarizer interface {
	Summarize(ctx context.Context, noteContent string) (ai.SummarizeOutput, error)
}

// File is an uploaded or dropped file.
type File struct {
	Name    string
	Content []byte
}

type Importer struct {
	summarizer Summarizer
	logger     *slog.Logger
}

func New(s Summarizer, logger *slog.Logger) *Importer {
	return &Importer{summarizer: s, logger: logger}
}

// Prepare builds the note to create from f. A summary failure is logged and
// the import continues with the filename-derived title.
func (im *Importer) Prepare(ctx context.Context, f File, notebookID, folderID string) (models.NewNote, error) {
	name := filepath.Base(strings.TrimSpace(f.Name))
	ext := filepath.Ext(name)
	if !strings.EqualFold(ext, Ext) {
		return models.NewNote{}, apperr.Invalid("only %s files can be imported", Ext)
	}
	if !utf8.Valid(f.Content) {
		return models.NewNote{}, apperr.Invalid("file is not valid UTF-8 text")
	}

	content := string(f.Content)
	n := models.NewNote{
		Title:      strings.TrimSuffix(name, ext),
		Content:    content,
		NotebookID: notebookID,
		FolderID:   folderID,
	}

	input := content
	if res := parser.Classify(content); res.IsList() {
		texts := make([]string, len(res.Items))
		for i, it := range res.Items {
			texts[i] = it.Text
		}
		input = strings.Join(texts, "\n")
	}
	if strings.TrimSpace(input) == "" {
		return n, nil
	}

	out, err := im.summarizer.Summarize(ctx, input)
	if err != nil {
		im.logger.Warn("import: summarize failed",
			slog.String("file", name),
			slog.String("error", err.Error()))
		return n, nil
	}
	n.Summary = out.Summary
	if out.Summary != "" && utf8.RuneCountInString(n.Title) < shortTitle {
		n.Title = truncate(out.Summary, maxTitleRunes)
	}
	return n, nil
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
