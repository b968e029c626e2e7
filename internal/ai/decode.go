package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// SchemaValidationError reports a model reply that does not have the
// declared shape.
type SchemaValidationError struct {
	Flow   string
	Field  string
	Reason string
}

func (e *SchemaValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("ai: %s reply: %s", e.Flow, e.Reason)
	}
	return fmt.Sprintf("ai: %s reply: field %q: %s", e.Flow, e.Field, e.Reason)
}

// stripFences removes a surrounding markdown code fence, which models add
// even when asked for bare JSON.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func decodeObject(flow, reply string) (map[string]json.RawMessage, error) {
	var obj map[string]json.RawMessage
	dec := json.NewDecoder(strings.NewReader(stripFences(reply)))
	if err := dec.Decode(&obj); err != nil {
		return nil, &SchemaValidationError{Flow: flow, Reason: "not a JSON object: " + err.Error()}
	}
	if obj == nil {
		return nil, &SchemaValidationError{Flow: flow, Reason: "null reply"}
	}
	return obj, nil
}

// requireString reads obj[key] as a string, reporting problems under field.
func requireString(flow, field string, obj map[string]json.RawMessage, key string) (string, error) {
	raw, ok := obj[key]
	if !ok {
		return "", &SchemaValidationError{Flow: flow, Field: field, Reason: "missing"}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return "", &SchemaValidationError{Flow: flow, Field: field, Reason: "must be a string"}
	}
	return s, nil
}

func decodeSummary(reply string) (SummarizeOutput, error) {
	obj, err := decodeObject(flowSummarize, reply)
	if err != nil {
		return SummarizeOutput{}, err
	}
	s, err := requireString(flowSummarize, "summary", obj, "summary")
	if err != nil {
		return SummarizeOutput{}, err
	}
	return SummarizeOutput{Summary: strings.TrimSpace(s)}, nil
}

func decodeQuery(reply string) (QueryOutput, error) {
	obj, err := decodeObject(flowQuery, reply)
	if err != nil {
		return QueryOutput{}, err
	}
	answer, err := requireString(flowQuery, "answer", obj, "answer")
	if err != nil {
		return QueryOutput{}, err
	}
	raw, ok := obj["references"]
	if !ok {
		return QueryOutput{}, &SchemaValidationError{Flow: flowQuery, Field: "references", Reason: "missing"}
	}
	var refs []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &refs); err != nil {
		return QueryOutput{}, &SchemaValidationError{Flow: flowQuery, Field: "references", Reason: "must be an array of objects"}
	}

	out := QueryOutput{Answer: answer, References: make([]Reference, 0, len(refs))}
	for i, r := range refs {
		field := fmt.Sprintf("references[%d]", i)
		title, err := requireString(flowQuery, field+".noteTitle", r, "noteTitle")
		if err != nil {
			return QueryOutput{}, err
		}
		lines, err := decodeLines(field+".lines", r["lines"])
		if err != nil {
			return QueryOutput{}, err
		}
		out.References = append(out.References, Reference{NoteTitle: title, Lines: lines})
	}
	return out, nil
}

func decodeLines(field string, raw json.RawMessage) ([]int, error) {
	if raw == nil || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, &SchemaValidationError{Flow: flowQuery, Field: field, Reason: "missing"}
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, &SchemaValidationError{Flow: flowQuery, Field: field, Reason: "must be an array of numbers"}
	}
	lines := make([]int, 0, len(elems))
	for _, e := range elems {
		var f float64
		// Quoted numbers are rejected; json.Unmarshal only fills a float64
		// from a number literal.
		if err := json.Unmarshal(e, &f); err != nil || f != math.Trunc(f) {
			return nil, &SchemaValidationError{Flow: flowQuery, Field: field, Reason: "line numbers must be integers"}
		}
		lines = append(lines, int(f))
	}
	return lines, nil
}
