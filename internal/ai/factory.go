package ai

import (
	"fmt"
	"net/http"
	"time"
)

// Provider names accepted by NewProvider.
const (
	ProviderGemini   = "gemini"
	ProviderOllama   = "ollama"
	ProviderDisabled = "disabled"
)

// Models used when the config names none.
const (
	DefaultGeminiModel = "gemini-2.0-flash"
	DefaultOllamaModel = "gemma:2b"
)

// Config selects and configures a backend.
type Config struct {
	Provider string
	BaseURL  string
	Model    string
	APIKey   string
	Timeout  time.Duration
}

// NewProvider builds the backend named by cfg.Provider. The timeout applies
// to the HTTP transport only.
func NewProvider(cfg Config) (Provider, error) {
	client := &http.Client{Timeout: cfg.Timeout}
	switch cfg.Provider {
	case ProviderGemini:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("ai: gemini requires an api key")
		}
		return NewGemini(cfg.BaseURL, orDefault(cfg.Model, DefaultGeminiModel), cfg.APIKey, client), nil
	case ProviderOllama:
		return NewOllama(cfg.BaseURL, orDefault(cfg.Model, DefaultOllamaModel), client), nil
	case ProviderDisabled, "":
		return Disabled{}, nil
	default:
		return nil, fmt.Errorf("ai: unsupported provider %q", cfg.Provider)
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
