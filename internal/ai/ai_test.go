package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type fakeProvider struct {
	reply   string
	err     error
	prompts []string
	opts    []Options
}

func (f *fakeProvider) Generate(_ context.Context, prompt string, opts ...Option) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.opts = append(f.opts, buildOptions(opts))
	return f.reply, f.err
}

func TestQueryNotes_DecodesReply(t *testing.T) {
	p := &fakeProvider{reply: "```json\n{\"answer\":\"Buy milk.\",\"references\":[{\"noteTitle\":\"Groceries\",\"lines\":[1,2]}]}\n```"}
	c := NewClient(p)
	out, err := c.QueryNotes(context.Background(), QueryInput{
		Question: "What to buy?",
		Notes:    []NoteInput{{Title: "Groceries", Content: "[] Milk\n[x] Bread"}},
	})
	if err != nil {
		t.Fatalf("QueryNotes: %v", err)
	}
	if out.Answer != "Buy milk." {
		t.Errorf("answer = %q", out.Answer)
	}
	if len(out.References) != 1 || out.References[0].NoteTitle != "Groceries" || len(out.References[0].Lines) != 2 {
		t.Errorf("references = %+v", out.References)
	}
	if !p.opts[0].JSON {
		t.Error("query should request JSON output")
	}
}

func TestQueryPrompt_NumbersLines(t *testing.T) {
	p := &fakeProvider{reply: `{"answer":"","references":[]}`}
	_, err := NewClient(p).QueryNotes(context.Background(), QueryInput{
		Question: "  q?  ",
		Notes:    []NoteInput{{Title: "T", Content: "first\nsecond"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	prompt := p.prompts[0]
	for _, want := range []string{"Title: T", "1: first", "2: second", "Question: q?"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestQueryNotes_SchemaErrors(t *testing.T) {
	cases := map[string]string{
		"not json":        "sorry, I cannot help",
		"missing answer":  `{"references":[]}`,
		"answer type":     `{"answer":3,"references":[]}`,
		"missing refs":    `{"answer":"a"}`,
		"ref title":       `{"answer":"a","references":[{"lines":[1]}]}`,
		"fractional line": `{"answer":"a","references":[{"noteTitle":"t","lines":[1.5]}]}`,
		"string line":     `{"answer":"a","references":[{"noteTitle":"t","lines":["1"]}]}`,
	}
	for name, reply := range cases {
		_, err := NewClient(&fakeProvider{reply: reply}).QueryNotes(context.Background(), QueryInput{Question: "q"})
		var sve *SchemaValidationError
		if !errors.As(err, &sve) {
			t.Errorf("%s: expected SchemaValidationError, got %v", name, err)
			continue
		}
		if sve.Flow != "query" {
			t.Errorf("%s: flow = %q", name, sve.Flow)
		}
	}
}

func TestSummarize(t *testing.T) {
	p := &fakeProvider{reply: `{"summary":"  Shopping  "}`}
	out, err := NewClient(p).Summarize(context.Background(), "milk")
	if err != nil {
		t.Fatal(err)
	}
	if out.Summary != "Shopping" {
		t.Errorf("summary = %q", out.Summary)
	}
	if !strings.Contains(p.prompts[0], "milk") {
		t.Error("prompt should contain the note content")
	}
}

func TestSummarize_ProviderError(t *testing.T) {
	_, err := NewClient(Disabled{}).Summarize(context.Background(), "x")
	if !errors.Is(err, ErrProviderDisabled) {
		t.Fatalf("expected ErrProviderDisabled, got %v", err)
	}
}

func TestGemini_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1beta/models/gemini-test:generateContent" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "secret" {
			t.Errorf("api key header = %q", r.Header.Get("x-goog-api-key"))
		}
		var req geminiRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.GenerationConfig.ResponseMimeType != "application/json" {
			t.Errorf("mime = %q", req.GenerationConfig.ResponseMimeType)
		}
		if req.Contents[0].Parts[0].Text != "hello" {
			t.Errorf("prompt = %+v", req.Contents)
		}
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"{\"summary\":"},{"text":"\"x\"}"}]}}]}`)
	}))
	defer srv.Close()

	g := NewGemini(srv.URL, "gemini-test", "secret", srv.Client())
	got, err := g.Generate(context.Background(), "hello", WithJSON())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != `{"summary":"x"}` {
		t.Errorf("got %q", got)
	}
}

func TestGemini_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewGemini(srv.URL, "m", "k", srv.Client()).Generate(context.Background(), "p")
	if err == nil || !strings.Contains(err.Error(), "429") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestOllama_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req ollamaChatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Stream || req.Format != "json" || req.Model != "llama3" {
			t.Errorf("request = %+v", req)
		}
		if req.Options.Temperature != 0.5 {
			t.Errorf("temperature = %v", req.Options.Temperature)
		}
		_, _ = io.WriteString(w, `{"model":"llama3","message":{"role":"assistant","content":"ok"},"done":true}`)
	}))
	defer srv.Close()

	o := NewOllama(srv.URL, "llama3", srv.Client())
	got, err := o.Generate(context.Background(), "hi", WithJSON(), WithTemperature(0.5))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "ok" {
		t.Errorf("got %q", got)
	}
}

func TestNewProvider(t *testing.T) {
	if _, err := NewProvider(Config{Provider: "gemini"}); err == nil {
		t.Error("gemini without api key should fail")
	}
	if _, err := NewProvider(Config{Provider: "openai"}); err == nil {
		t.Error("unknown provider should fail")
	}
	p, err := NewProvider(Config{Provider: "ollama", Model: "m"})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.(*Ollama); !ok {
		t.Errorf("provider = %T", p)
	}
	p, _ = NewProvider(Config{})
	if _, ok := p.(Disabled); !ok {
		t.Errorf("empty provider = %T", p)
	}
}
