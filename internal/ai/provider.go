// Package ai talks to a hosted or local language model. It renders the
// summarize and query prompts, sends them to a Provider and decodes the JSON
// replies into typed results.
package ai

import (
	"context"
	"errors"
)

// ErrProviderDisabled is returned by the disabled provider.
var ErrProviderDisabled = errors.New("ai provider disabled")

// Options are per-call generation settings.
type Options struct {
	Temperature float64
	Model       string // overrides the provider default
	JSON        bool   // ask the backend for a JSON-only reply
}

// Option adjusts Options.
type Option func(*Options)

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// WithJSON requests structured JSON output where the backend supports it.
func WithJSON() Option {
	return func(o *Options) {
		o.JSON = true
	}
}

func buildOptions(opts []Option) Options {
	o := Options{Temperature: 0.2}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Provider is a single-prompt text generation backend.
type Provider interface {
	Generate(ctx context.Context, prompt string, opts ...Option) (string, error)
}

// Disabled is the provider used when no backend is configured.
type Disabled struct{}

var _ Provider = Disabled{}

func (Disabled) Generate(context.Context, string, ...Option) (string, error) {
	return "", ErrProviderDisabled
}
