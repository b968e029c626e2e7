// Package chat keeps the AI question/answer history and runs each question
// against the active notes.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/starford/notewise/internal/ai"
	"github.com/starford/notewise/internal/apperr"
	"github.com/starford/notewise/internal/models"
	"github.com/starford/notewise/internal/parser"
)

const (
	// NoActiveNotesAnswer is returned without an AI call when there is
	// nothing to query.
	NoActiveNotesAnswer = "No active notes available to query."
	// FailureMessage is shown when the AI call fails.
	FailureMessage = "Error processing your question."
)

// Querier answers a question over notes.
type Querier interface {
	QueryNotes(ctx context.Context, in ai.QueryInput) (ai.QueryOutput, error)
}

// NoteSource provides the notes a question runs against.
type NoteSource interface {
	ActiveNotes() []models.Note
}

// Exchange pairs a user message with the assistant message answering it.
type Exchange struct {
	Question models.ChatMessage `json:"question"`
	Answer   models.ChatMessage `json:"answer"`
}

// Option configures a Session.
type Option func(*Session)

func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func WithIDGenerator(f func() string) Option {
	return func(s *Session) { s.newID = f }
}

// Session is the ordered chat history. Questions may overlap; each
// exchange is correlated by message id and Loading reports whether any is
// still pending.
type Session struct {
	querier Querier
	notes   NoteSource
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string

	mu        sync.Mutex
	history   []models.ChatMessage
	pending   map[string]struct{}
	resolving map[string]struct{}
}

func New(q Querier, notes NoteSource, logger *slog.Logger, opts ...Option) *Session {
	s := &Session{
		querier:   q,
		notes:     notes,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
		pending:   make(map[string]struct{}),
		resolving: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Begin records the question and a loading placeholder for its answer.
func (s *Session) Begin(question string) (Exchange, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Exchange{}, apperr.Invalid("question is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	q := models.ChatMessage{
		ID:        s.newID(),
		Role:      models.ChatRoleUser,
		QueryText: question,
		Timestamp: now,
	}
	a := models.ChatMessage{
		ID:        s.newID(),
		Role:      models.ChatRoleAssistant,
		Content:   models.ChatMessageContent{IsLoading: true},
		ReplyTo:   q.ID,
		Timestamp: now,
	}
	s.history = append(s.history, q, a)
	s.pending[a.ID] = struct{}{}
	return Exchange{Question: q, Answer: a}, nil
}

// Resolve answers a pending exchange. The AI is called at most once and
// only when at least one note is active. AI failures become error content
// on the answer rather than a returned error.
func (s *Session) Resolve(ctx context.Context, ex Exchange) (models.ChatMessage, error) {
	s.mu.Lock()
	_, ok := s.pending[ex.Answer.ID]
	_, busy := s.resolving[ex.Answer.ID]
	if ok && !busy {
		s.resolving[ex.Answer.ID] = struct{}{}
	}
	s.mu.Unlock()
	if !ok || busy {
		return models.ChatMessage{}, fmt.Errorf("chat: exchange %s: %w", ex.Answer.ID, apperr.ErrConflict)
	}

	notes := s.notes.ActiveNotes()
	if len(notes) == 0 {
		return s.complete(ex.Answer, models.ChatMessageContent{Answer: NoActiveNotesAnswer, References: []models.QueryReference{}}), nil
	}

	in := ai.QueryInput{Question: ex.Question.QueryText, Notes: make([]ai.NoteInput, len(notes))}
	for i, n := range notes {
		in.Notes[i] = ai.NoteInput{Title: n.Title, Content: parser.Flatten(n)}
	}

	out, err := s.querier.QueryNotes(ctx, in)
	if err != nil {
		s.logger.Error("chat: query failed",
			slog.String("message_id", ex.Answer.ID),
			slog.Int("notes", len(notes)),
			slog.String("error", err.Error()))
		return s.complete(ex.Answer, models.ChatMessageContent{Error: FailureMessage}), nil
	}

	refs := make([]models.QueryReference, len(out.References))
	for i, r := range out.References {
		refs[i] = models.QueryReference{NoteTitle: r.NoteTitle, Lines: r.Lines}
	}
	return s.complete(ex.Answer, models.ChatMessageContent{Answer: out.Answer, References: refs}), nil
}

// complete stores the final content of an assistant message. The history
// may have been cleared meanwhile, in which case only the pending mark is
// dropped.
func (s *Session) complete(msg models.ChatMessage, content models.ChatMessageContent) models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pending, msg.ID)
	delete(s.resolving, msg.ID)
	msg.Content = content
	msg.Timestamp = s.now()
	for i := range s.history {
		if s.history[i].ID == msg.ID {
			s.history[i] = msg
			break
		}
	}
	return msg.Clone()
}

// Ask runs Begin and Resolve back to back.
func (s *Session) Ask(ctx context.Context, question string) (Exchange, error) {
	ex, err := s.Begin(question)
	if err != nil {
		return Exchange{}, err
	}
	ex.Answer, err = s.Resolve(ctx, ex)
	return ex, err
}

// History returns a copy of all messages in order.
func (s *Session) History() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ChatMessage, len(s.history))
	for i, m := range s.history {
		out[i] = m.Clone()
	}
	return out
}

// Message returns one message by id.
func (s *Session) Message(id string) (models.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.history {
		if m.ID == id {
			return m.Clone(), nil
		}
	}
	return models.ChatMessage{}, fmt.Errorf("chat: message %s: %w", id, apperr.ErrNotFound)
}

// Clear empties the history. Exchanges still in flight keep the session
// loading until they finish.
func (s *Session) Clear() {
	s.mu.Lock()
	s.history = nil
	s.mu.Unlock()
}

// Loading reports whether any exchange is pending.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending) > 0
}
