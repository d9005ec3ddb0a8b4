// internal/writers/json.go
package writers

import (
	"encoding/json"
	"io"
)

func init() { RegisterStream("json", WriteJSON) }

func values(r Rows) []any {
	out := make([]any, 0, r.Len())
	for i := 0; i < r.Len(); i++ {
		out = append(out, r.Value(i))
	}
	return out
}

// WriteJSON writes one indented document: the row array of a single
// section, or an object keyed by section name.
func WriteJSON(w io.Writer, sections []Section) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if len(sections) == 1 {
		return enc.Encode(values(sections[0].Rows))
	}
	doc := make(map[string][]any, len(sections))
	for _, s := range sections {
		doc[s.Name] = values(s.Rows)
	}
	return enc.Encode(doc)
}
