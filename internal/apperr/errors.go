// Package apperr defines the sentinel errors shared across layers.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation failed")
)

// Invalid returns an ErrValidation carrying a user-facing reason.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Reason returns the text after the ErrValidation marker, or the whole
// message when err carries none.
func Reason(err error) string {
	msg := err.Error()
	marker := ErrValidation.Error() + ": "
	if i := strings.Index(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return msg
}
