package mcpserver

import (
	"fmt"
	"strings"

	"github.com/starford/notewise/internal/models"
	"github.com/starford/notewise/internal/parser"
)

// renderNote prints a note header followed by its body with 1-based line
// numbers, the same numbering query_notes citations use.
func renderNote(n models.Note) string {
	var b strings.Builder
	fmt.Fprintf(&b, "id: %s\n", n.ID)
	fmt.Fprintf(&b, "title: %s\n", n.Title)
	fmt.Fprintf(&b, "type: %s\n", n.Type)
	fmt.Fprintf(&b, "status: %s\n", n.Status)
	if n.Pinned {
		b.WriteString("pinned: true\n")
	}
	if n.Summary != "" {
		fmt.Fprintf(&b, "summary: %s\n", n.Summary)
	}
	if n.ImageURL != "" {
		fmt.Fprintf(&b, "image: %s\n", n.ImageURL)
	}
	b.WriteString("---\n")
	body := parser.Flatten(n)
	if body == "" {
		return b.String()
	}
	for i, line := range strings.Split(body, "\n") {
		fmt.Fprintf(&b, "%d: %s\n", i+1, line)
	}
	return b.String()
}
