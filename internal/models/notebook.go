// Package models defines the domain types for NoteWise.
package models

import "time"

// Notebook is the top-level container for folders and notes.
type Notebook struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Folder groups notes inside a notebook. ParentID is empty for folders that
// sit directly under the notebook.
type Folder struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	NotebookID string    `json:"notebook_id"`
	ParentID   string    `json:"parent_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
