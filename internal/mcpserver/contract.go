package mcpserver

// NoteFormatContract describes how NoteWise interprets note content, so
// LLM consumers can write notes that come out as intended.
const NoteFormatContract = `# NoteWise Note Format

Notes live in a notebook and optionally in a folder. Every note has a title
and a plain-text body. There is no frontmatter and no Markdown rendering.

## Text notes vs. checklists

A body becomes a **checklist** when at least one line starts with a marker
(leading whitespace is ignored):

| Marker   | Meaning          |
|----------|------------------|
| ` + "`- `" + `     | unchecked item   |
| ` + "`[] `" + `    | unchecked item   |
| ` + "`[ ] `" + `   | unchecked item   |
| ` + "`[x] `" + `   | checked item     |
| ` + "`[X] `" + `   | checked item     |

Lines without a marker are dropped from the item list but kept in the raw
content. Without any marker the note is plain text.

## Rules

1. The title is required for citations; answers reference notes by title.
   Prefer unique titles inside a notebook.
2. Line numbers used in citations are 1-based and count every line of the
   body, blank lines included.
3. Checklist items are edited one at a time (add, rename, toggle, remove);
   the body is rewritten as ` + "`[x] text`" + ` / ` + "`[] text`" + ` lines afterwards.
4. Imported files must be UTF-8 ` + "`.txt`" + ` files. A file name shorter than five
   characters is replaced by the AI summary as the title.
5. Images are attached with the ` + "`attach_image`" + ` tool (png, jpg, jpeg, gif,
   webp; at most 10 MB). A note holds a single image.

## Example

` + "```" + `text
- Milk
- Eggs
[x] Bread
` + "```" + `

yields a checklist with three items, the last one checked.
`
