package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestInvalid_WrapsValidation(t *testing.T) {
	err := Invalid("notebook %q is required", "x")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if got := Reason(err); got != `notebook "x" is required` {
		t.Errorf("reason = %q", got)
	}
}

func TestReason_PlainError(t *testing.T) {
	if got := Reason(ErrNotFound); got != "not found" {
		t.Errorf("reason = %q", got)
	}
}

func TestReason_Wrapped(t *testing.T) {
	err := fmt.Errorf("store: add note: %w", Invalid("title is required"))
	if got := Reason(err); got != "title is required" {
		t.Errorf("reason = %q", got)
	}
}
