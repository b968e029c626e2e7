package internal

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should pass: %v", err)
	}
	if cfg.SQLite.Path != ":memory:" {
		t.Errorf("sqlite path = %q", cfg.SQLite.Path)
	}
}

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestAIConfig_GeminiNeedsKey(t *testing.T) {
	cfg := AIConfig{Provider: "gemini", Timeout: time.Second}
	if err := cfg.Validate(); err == nil {
		t.Fatal("gemini without api key should fail")
	}
	cfg.APIKey = "k"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("gemini with key should pass: %v", err)
	}
}

func TestAIConfig_UnknownProvider(t *testing.T) {
	cfg := AIConfig{Provider: "oracle"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("unknown provider should fail")
	}
}

func TestAIConfig_EmptyProviderDisabled(t *testing.T) {
	cfg := AIConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty provider should pass: %v", err)
	}
	if cfg.Provider != "disabled" {
		t.Errorf("provider = %q", cfg.Provider)
	}
}

func TestInboxConfig_PathNeedsNotebook(t *testing.T) {
	cfg := InboxConfig{Path: "./inbox"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("inbox path without notebook should fail")
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}
