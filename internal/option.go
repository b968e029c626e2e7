package internal

import "github.com/starford/notewise/internal/ai"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config   *Config
	provider ai.Provider
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithAIProvider replaces the provider built from the ai config section.
func WithAIProvider(p ai.Provider) Option {
	return func(a *application) {
		a.provider = p
	}
}
