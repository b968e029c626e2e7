// Package storage provides flat directories of files: the import inbox and
// the attachment store.
package storage

import "github.com/starford/notewise/internal/models"

// Provider is the interface for directory file operations. Paths are
// relative to the provider root.
type Provider interface {
	// List returns metadata for the files directly inside dir whose
	// extension is one of exts (all files when exts is empty).
	List(dir string, exts ...string) ([]models.FileMeta, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path.
	Write(path string, content []byte) error
	// Delete removes the file at path.
	Delete(path string) error
	// Move renames oldPath to newPath.
	Move(oldPath, newPath string) error
	// Exists reports whether a file is present at path.
	Exists(path string) (bool, error)
	// Abs resolves path to an absolute file-system path inside the root.
	Abs(path string) (string, error)
}
