package noteservice

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/starford/notewise/internal/apperr"
	"github.com/starford/notewise/internal/sse"
)

// AttachmentPrefix is the URL path under which attachments are served.
const AttachmentPrefix = "/attachments/"

// MaxImageSize bounds a single uploaded image.
const MaxImageSize = 10 << 20

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// ErrNoAttachments is returned when no attachment directory is configured.
var ErrNoAttachments = errors.New("attachments are not configured")

// SetImage stores an uploaded image and points the note at it. A previous
// uploaded image of the note is removed.
func (s *Service) SetImage(_ context.Context, noteID, filename string, data []byte) (NoteDetail, error) {
	if s.attachments == nil {
		return NoteDetail{}, ErrNoAttachments
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !imageExts[ext] {
		return NoteDetail{}, apperr.Invalid("unsupported image type %q", ext)
	}
	if len(data) == 0 {
		return NoteDetail{}, apperr.Invalid("image is empty")
	}
	if len(data) > MaxImageSize {
		return NoteDetail{}, apperr.Invalid("image exceeds %d bytes", MaxImageSize)
	}
	prev, err := s.state.Note(noteID)
	if err != nil {
		return NoteDetail{}, err
	}

	name := s.newID() + ext
	if err := s.attachments.Write(name, data); err != nil {
		return NoteDetail{}, err
	}
	n, err := s.state.SetImageURL(noteID, AttachmentPrefix+name)
	if err != nil {
		_ = s.attachments.Delete(name)
		return NoteDetail{}, err
	}
	s.removeAttachment(prev.ImageURL)
	return s.noteChanged(n, sse.ChangeUpdated), nil
}

// SetImageURL points the note at an external image URL.
func (s *Service) SetImageURL(_ context.Context, noteID, url string) (NoteDetail, error) {
	prev, err := s.state.Note(noteID)
	if err != nil {
		return NoteDetail{}, err
	}
	n, err := s.state.SetImageURL(noteID, url)
	if err != nil {
		return NoteDetail{}, err
	}
	if prev.ImageURL != n.ImageURL {
		s.removeAttachment(prev.ImageURL)
	}
	return s.noteChanged(n, sse.ChangeUpdated), nil
}

// AttachmentPath resolves an attachment name to a file on disk.
func (s *Service) AttachmentPath(name string) (string, error) {
	if s.attachments == nil {
		return "", ErrNoAttachments
	}
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", apperr.ErrNotFound
	}
	return s.attachments.Abs(name)
}

// removeAttachment deletes the file behind url when it is one of ours.
func (s *Service) removeAttachment(url string) {
	if s.attachments == nil || !strings.HasPrefix(url, AttachmentPrefix) {
		return
	}
	name := strings.TrimPrefix(url, AttachmentPrefix)
	if err := s.attachments.Delete(name); err != nil {
		s.logger.Warn("attachments: delete failed", slog.String("name", name), slog.String("error", err.Error()))
	}
}
