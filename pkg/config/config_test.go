package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type sample struct {
	Name string `yaml:"name"`
	Port int    `yaml:"port"`
}

func (s *sample) Validate() error {
	if s.Port <= 0 {
		return errors.New("port must be positive")
	}
	return nil
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("SAMPLE_NAME", "notes")
	path := writeFile(t, "name: ${SAMPLE_NAME}\nport: 9000\n")

	var s sample
	if err := Load(path, &s); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "notes" || s.Port != 9000 {
		t.Errorf("got %+v", s)
	}
}

func TestLoad_KeepsDefaultsForMissingKeys(t *testing.T) {
	path := writeFile(t, "name: x\n")
	s := sample{Port: 8080}
	if err := Load(path, &s); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Port != 8080 {
		t.Errorf("port = %d", s.Port)
	}
}

func TestLoad_ValidationError(t *testing.T) {
	path := writeFile(t, "port: 0\n")
	var s sample
	err := Load(path, &s)
	if err == nil || !strings.Contains(err.Error(), "validation failed") {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLoadOptional_MissingFileUsesDefaults(t *testing.T) {
	s := sample{Port: 8080}
	found, err := LoadOptional(filepath.Join(t.TempDir(), "absent.yaml"), &s)
	if err != nil {
		t.Fatalf("LoadOptional: %v", err)
	}
	if found || s.Port != 8080 {
		t.Errorf("found=%v s=%+v", found, s)
	}
}

func TestLoadOptional_MissingFileStillValidates(t *testing.T) {
	var s sample
	if _, err := LoadOptional(filepath.Join(t.TempDir(), "absent.yaml"), &s); err == nil {
		t.Fatal("expected validation error")
	}
}
