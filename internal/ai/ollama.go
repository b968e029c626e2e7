package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultOllamaURL is where a local Ollama daemon listens.
const DefaultOllamaURL = "http://localhost:11434"

// Ollama calls the /api/chat endpoint of an Ollama server.
type Ollama struct {
	BaseURL string
	Model   string
	Client  *http.Client
}

var _ Provider = (*Ollama)(nil)

func NewOllama(baseURL, model string, client *http.Client) *Ollama {
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Ollama{BaseURL: strings.TrimRight(baseURL, "/"), Model: model, Client: client}
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Format   string          `json:"format,omitempty"`
	Options  ollamaOptions   `json:"options"`
}

type ollamaChatResponse struct {
	Model   string        `json:"model"`
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
}

func (o *Ollama) Generate(ctx context.Context, prompt string, opts ...Option) (string, error) {
	opt := buildOptions(opts)
	model := o.Model
	if opt.Model != "" {
		model = opt.Model
	}

	body := ollamaChatRequest{
		Model:    model,
		Messages: []ollamaMessage{{Role: "user", Content: prompt}},
		Stream:   false,
		Options:  ollamaOptions{Temperature: opt.Temperature},
	}
	if opt.JSON {
		body.Format = "json"
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("ollama: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.BaseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("ollama: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama: request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("ollama: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out ollamaChatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("ollama: decode response: %w", err)
	}
	return out.Message.Content, nil
}
