package ai

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

const summarizeTemplate = `You are an expert note summarizer. Read the note below and summarize the key topics it covers in one short sentence.

Note Content:
-----------
{{ .NoteContent | trim }}
-----------

Respond with a single JSON object and nothing else:
{"summary": "<the summary>"}
`

// Note lines are numbered so the model can cite them; numbering starts at 1
// and matches the line numbers used for highlighting.
const queryTemplate = `You are an AI assistant that answers questions based on a collection of notes.

Notes:
{{- range .Notes }}
Title: {{ .Title }}
Content:
{{- range $i, $line := splitList "\n" .Content }}
{{ add1 $i }}: {{ $line }}
{{- end }}
---
{{- end }}

Question: {{ .Question | trim }}

Answer the question using only the information provided in the notes. For each sentence in your answer, cite the notes and line numbers that support it.
If a note is not relevant, do not include it in the references.

Respond with a single JSON object and nothing else, in this shape:
{"answer": "The answer to the question.", "references": [{"noteTitle": "The title of the note", "lines": [1, 2, 3]}]}
`

var prompts = template.Must(
	template.New("prompts").Funcs(sprig.TxtFuncMap()).Parse(
		`{{ define "summarize" }}` + summarizeTemplate + `{{ end }}` +
			`{{ define "query" }}` + queryTemplate + `{{ end }}`,
	),
)

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := prompts.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("ai: render %s prompt: %w", name, err)
	}
	return buf.String(), nil
}
