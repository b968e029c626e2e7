package noteservice

import (
	"context"
	"log/slog"

	"github.com/starford/notewise/internal/chat"
	"github.com/starford/notewise/internal/models"
	"github.com/starford/notewise/internal/sse"
)

// EventChatAnswered is published when an asynchronous exchange completes.
const EventChatAnswered = "chat.answered"

// Ask answers a question synchronously.
func (s *Service) Ask(ctx context.Context, question string) (chat.Exchange, error) {
	s.state.ClearHighlight()
	return s.chat.Ask(ctx, question)
}

// Submit records the question and resolves it in the background. The
// request context is not used for the AI call: an exchange, once sent,
// always runs to completion.
func (s *Service) Submit(ctx context.Context, question string) (chat.Exchange, error) {
	ex, err := s.chat.Begin(question)
	if err != nil {
		return chat.Exchange{}, err
	}
	s.state.ClearHighlight()

	bg := context.WithoutCancel(ctx)
	s.async.Add(1)
	go func() {
		defer s.async.Done()
		msg, err := s.chat.Resolve(bg, ex)
		if err != nil {
			s.logger.Warn("chat: resolve failed", slog.String("message_id", ex.Answer.ID), slog.String("error", err.Error()))
			return
		}
		s.events.Publish(sse.Event{Type: EventChatAnswered, Data: msg})
	}()
	return ex, nil
}

func (s *Service) ChatHistory(_ context.Context) []models.ChatMessage {
	return s.chat.History()
}

func (s *Service) ChatMessage(_ context.Context, id string) (models.ChatMessage, error) {
	return s.chat.Message(id)
}

func (s *Service) ClearChat(_ context.Context) {
	s.chat.Clear()
}

func (s *Service) ChatLoading() bool {
	return s.chat.Loading()
}
