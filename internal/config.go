package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/notewise/internal/ai"
	"github.com/starford/notewise/internal/index"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App         ApplicationConfig `yaml:"app"`
	AI          AIConfig          `yaml:"ai"`
	SQLite      SQLiteConfig      `yaml:"sqlite"`
	Inbox       InboxConfig       `yaml:"inbox"`
	Attachments AttachmentsConfig `yaml:"attachments"`
	Auth        AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.AI.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Inbox.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
	// Seed loads the sample notebook on an empty store.
	Seed bool `yaml:"seed"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// AIConfig selects the language-model backend.
type AIConfig struct {
	Provider    string        `yaml:"provider"`
	BaseURL     string        `yaml:"base_url"`
	Model       string        `yaml:"model"`
	APIKey      string        `yaml:"api_key"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Validate validates the AI configuration.
func (c *AIConfig) Validate() error {
	if c.Provider == "" {
		c.Provider = ai.ProviderDisabled
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Provider, validation.Required,
			validation.In(ai.ProviderGemini, ai.ProviderOllama, ai.ProviderDisabled)),
		validation.Field(&c.APIKey, validation.When(c.Provider == ai.ProviderGemini, validation.Required)),
		validation.Field(&c.Temperature, validation.Min(0.0), validation.Max(2.0)),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
	)
}

// ProviderConfig converts the section for ai.NewProvider.
func (c *AIConfig) ProviderConfig() ai.Config {
	return ai.Config{
		Provider: c.Provider,
		BaseURL:  c.BaseURL,
		Model:    c.Model,
		APIKey:   c.APIKey,
		Timeout:  c.Timeout,
	}
}

// SQLiteConfig holds the search index database location. The default
// in-memory database is rebuilt from the store on start.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// InboxConfig configures the watched import directory. An empty Path
// disables the watcher.
type InboxConfig struct {
	Path     string `yaml:"path"`
	Notebook string `yaml:"notebook"`
}

// Validate validates the inbox configuration.
func (c *InboxConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Notebook, validation.When(c.Path != "", validation.Required)),
	)
}

// AttachmentsConfig holds the directory for uploaded note images. An empty
// Path disables uploads.
type AttachmentsConfig struct {
	Path string `yaml:"path"`
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
			Seed: true,
		},
		AI: AIConfig{
			Provider:    ai.ProviderDisabled,
			Temperature: 0.2,
			Timeout:     60 * time.Second,
		},
		SQLite: SQLiteConfig{
			Path: index.MemoryDSN,
		},
		Inbox: InboxConfig{
			Notebook: "Inbox",
		},
		Attachments: AttachmentsConfig{
			Path: "./attachments",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
