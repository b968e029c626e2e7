// Package parser classifies raw note text as plain text or a checklist and
// converts between checklist items and their textual form.
package parser

import (
	"regexp"
	"strings"

	"github.com/starford/notewise/internal/models"
)

var (
	// markerRe matches a checklist prefix at the start of a left-trimmed line.
	markerRe = regexp.MustCompile(`^(?:- |\[\] |\[([ xX])\] )`)
	// bareMarkerRe matches a line that is only a marker with no text after it.
	bareMarkerRe = regexp.MustCompile(`^(?:-|\[\]|\[([ xX])\])$`)
)

// Item is one parsed checklist entry.
type Item struct {
	Text    string
	Checked bool
}

// Result holds the outcome of classifying a note body.
type Result struct {
	Type  models.NoteType
	Items []Item
}

// IsList reports whether the input was classified as a checklist.
func (r Result) IsList() bool {
	return r.Type == models.NoteTypeList
}

// Classify returns a list result when at least one line carries a checklist
// marker ("- ", "[] ", "[ ] ", "[x] " or "[X] "). Lines without a marker are
// skipped when building items. Otherwise the result is text with no items.
func Classify(raw string) Result {
	var items []Item
	for _, line := range splitLines(raw) {
		if it, ok := parseLine(line); ok {
			items = append(items, it)
		}
	}
	if len(items) == 0 {
		return Result{Type: models.NoteTypeText}
	}
	return Result{Type: models.NoteTypeList, Items: items}
}

// ItemsFromLines turns every non-blank line into an item, honouring markers
// where present. Used when a text note is converted to a list.
func ItemsFromLines(raw string) []Item {
	var items []Item
	for _, line := range splitLines(raw) {
		if it, ok := parseLine(line); ok {
			items = append(items, it)
			continue
		}
		if text := strings.TrimSpace(line); text != "" {
			items = append(items, Item{Text: text})
		}
	}
	return items
}

// Render serialises items one per line as "[x] text" or "[] text".
// Classify(Render(items)) yields the same text/checked pairs.
func Render(items []models.NoteListItem) string {
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = renderLine(it.Checked, it.Text)
	}
	return strings.Join(lines, "\n")
}

// Flatten returns the body of n as plain text: rendered items for list notes,
// raw content otherwise.
func Flatten(n models.Note) string {
	if n.Type == models.NoteTypeList {
		return Render(n.Items)
	}
	return n.Content
}

func renderLine(checked bool, text string) string {
	if checked {
		return "[x] " + text
	}
	return "[] " + text
}

func parseLine(line string) (Item, bool) {
	trimmed := strings.TrimLeft(line, " \t")
	if m := bareMarkerRe.FindStringSubmatch(strings.TrimSpace(trimmed)); m != nil {
		return Item{Checked: isCheckMark(m[1])}, true
	}
	m := markerRe.FindStringSubmatch(trimmed)
	if m == nil {
		return Item{}, false
	}
	return Item{
		Text:    strings.TrimSpace(trimmed[len(m[0]):]),
		Checked: isCheckMark(m[1]),
	}, true
}

func isCheckMark(s string) bool {
	return s == "x" || s == "X"
}

func splitLines(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	return strings.Split(raw, "\n")
}
