// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"sort"

	"panama-core/table"
)

// Rows is one tabular section of an output.
type Rows interface {
	Header() []string
	Len() int
	// Cells renders row i as TSV fields.
	Cells(i int) []string
	// Value is row i as a pkg/api wire value.
	Value(i int) any
}

// Section is a named block of rows.
type Section struct {
	Name string
	Rows Rows
}

// Payload is what WriteTables serializes.
type Payload struct {
	Tables *table.Tables
	// Select names the tables written by stream formats; empty writes all.
	Select []string
	// Weights, when set, adds the flux weight of every event.
	Weights []float64
}

// Writer registries (format → handler). Register in init() blocks of the
// format files.
var (
	StreamWriters = map[string]func(w io.Writer, sections []Section) error{}
	FileWriters   = map[string]func(path string, p *Payload) error{}
)

// Register helpers (idempotent last-wins)
func RegisterStream(format string, fn func(io.Writer, []Section) error) { StreamWriters[format] = fn }
func RegisterFile(format string, fn func(string, *Payload) error)       { FileWriters[format] = fn }

// Formats lists every registered format.
func Formats() []string {
	var out []string
	for f := range StreamWriters {
		out = append(out, f)
	}
	for f := range FileWriters {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// IsFileFormat reports whether format needs a file path instead of a stream.
func IsFileFormat(format string) bool {
	_, ok := FileWriters[format]
	return ok
}

// WriteSections dispatches rows to a stream format.
func WriteSections(format string, w io.Writer, sections ...Section) error {
	fn, ok := StreamWriters[format]
	if !ok {
		return fmt.Errorf("unknown output format %q (no stream writer registered)", format)
	}
	return fn(w, sections)
}

// Sections returns the selected tables of p in run, event, particle order.
func (p *Payload) Sections() ([]Section, error) {
	all := []Section{
		{table.NameRuns, RunRows{p.Tables.Runs}},
		{table.NameEvents, EventRows{p.Tables.Events, p.Weights}},
		{table.NameParticles, ParticleRows{p.Tables.Particles}},
	}
	if len(p.Select) == 0 {
		return all, nil
	}
	want := make(map[string]bool, len(p.Select))
	for _, s := range p.Select {
		switch s {
		case table.NameRuns, table.NameEvents, table.NameParticles:
			want[s] = true
		default:
			return nil, fmt.Errorf("unknown table %q", s)
		}
	}
	var out []Section
	for _, s := range all {
		if want[s.Name] {
			out = append(out, s)
		}
	}
	return out, nil
}

// WriteTables writes p to path for file formats and to w otherwise.
func WriteTables(format string, w io.Writer, path string, p *Payload) error {
	if fn, ok := FileWriters[format]; ok {
		if path == "" || path == "-" {
			return fmt.Errorf("output format %q needs a file path", format)
		}
		return fn(path, p)
	}
	sections, err := p.Sections()
	if err != nil {
		return err
	}
	return WriteSections(format, w, sections...)
}
