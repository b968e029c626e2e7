package ai

import (
	"context"
	"fmt"
)

const (
	flowSummarize = "summarize"
	flowQuery     = "query"
)

// SummarizeOutput is the decoded reply of the summarize flow.
type SummarizeOutput struct {
	Summary string
}

// NoteInput is one note projected for a query.
type NoteInput struct {
	Title   string
	Content string
}

// QueryInput is a question over a set of notes.
type QueryInput struct {
	Question string
	Notes    []NoteInput
}

// Reference cites lines of a note by title.
type Reference struct {
	NoteTitle string
	Lines     []int
}

// QueryOutput is the decoded reply of the query flow.
type QueryOutput struct {
	Answer     string
	References []Reference
}

// Client runs the two prompt flows against a Provider. One call per flow,
// no retries.
type Client struct {
	provider    Provider
	temperature float64
	model       string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

func WithDefaultTemperature(t float64) ClientOption {
	return func(c *Client) { c.temperature = t }
}

func WithDefaultModel(m string) ClientOption {
	return func(c *Client) { c.model = m }
}

func NewClient(p Provider, opts ...ClientOption) *Client {
	if p == nil {
		p = Disabled{}
	}
	c := &Client{provider: p, temperature: 0.2}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) callOptions() []Option {
	opts := []Option{WithTemperature(c.temperature), WithJSON()}
	if c.model != "" {
		opts = append(opts, WithModel(c.model))
	}
	return opts
}

// Summarize asks for a short topic summary of noteContent.
func (c *Client) Summarize(ctx context.Context, noteContent string) (SummarizeOutput, error) {
	prompt, err := render(flowSummarize, struct{ NoteContent string }{noteContent})
	if err != nil {
		return SummarizeOutput{}, err
	}
	reply, err := c.provider.Generate(ctx, prompt, c.callOptions()...)
	if err != nil {
		return SummarizeOutput{}, fmt.Errorf("ai: summarize: %w", err)
	}
	return decodeSummary(reply)
}

// QueryNotes answers a question strictly from the supplied notes.
func (c *Client) QueryNotes(ctx context.Context, in QueryInput) (QueryOutput, error) {
	prompt, err := render(flowQuery, in)
	if err != nil {
		return QueryOutput{}, err
	}
	reply, err := c.provider.Generate(ctx, prompt, c.callOptions()...)
	if err != nil {
		return QueryOutput{}, fmt.Errorf("ai: query: %w", err)
	}
	return decodeQuery(reply)
}
