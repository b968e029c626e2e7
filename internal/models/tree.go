package models

import "time"

// TreeItemType is the kind of node in the sidebar tree.
type TreeItemType string

const (
	TreeItemNotebook TreeItemType = "notebook"
	TreeItemFolder   TreeItemType = "folder"
	TreeItemNote     TreeItemType = "note"
)

// TreeItem is a node of the notebook → folder → note hierarchy.
type TreeItem struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Type       TreeItemType `json:"type"`
	ParentID   string       `json:"parent_id,omitempty"`
	NotebookID string       `json:"notebook_id,omitempty"`
	FolderID   string       `json:"folder_id,omitempty"`
	Children   []TreeItem   `json:"children,omitempty"`
}

// FileMeta is a lightweight description of a file in a storage directory.
type FileMeta struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}
