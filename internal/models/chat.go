package models

import "time"

// ChatRole identifies the author of a chat message.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// QueryReference cites lines of a note by its title.
type QueryReference struct {
	NoteTitle string `json:"note_title"`
	Lines     []int  `json:"lines"`
}

// ChatMessageContent is the assistant side of an exchange.
type ChatMessageContent struct {
	Answer     string           `json:"answer,omitempty"`
	References []QueryReference `json:"references"`
	Error      string           `json:"error,omitempty"`
	IsLoading  bool             `json:"is_loading,omitempty"`
}

// ChatMessage is one entry of the AI chat history. ReplyTo links an
// assistant message to the user message it answers.
type ChatMessage struct {
	ID        string             `json:"id"`
	Role      ChatRole           `json:"role"`
	QueryText string             `json:"query_text,omitempty"`
	Content   ChatMessageContent `json:"content"`
	ReplyTo   string             `json:"reply_to,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}

// Clone returns a deep copy of m.
func (m ChatMessage) Clone() ChatMessage {
	if m.Content.References != nil {
		refs := make([]QueryReference, len(m.Content.References))
		for i, r := range m.Content.References {
			refs[i] = QueryReference{NoteTitle: r.NoteTitle, Lines: append([]int(nil), r.Lines...)}
		}
		m.Content.References = refs
	}
	return m
}
