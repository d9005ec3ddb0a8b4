// internal/writers/jsonl.go
package writers

import (
	"encoding/json"
	"io"

	"panama/internal/jsonlutil"
)

func init() { RegisterStream("jsonl", WriteJSONL) }

// StartJSONLWriter streams wire values as one JSON line each (v1).
func StartJSONLWriter(out io.Writer, bufSize int) (chan<- any, <-chan error) {
	return jsonlutil.Start[any](out, bufSize,
		func(enc *json.Encoder, v any) error { return enc.Encode(v) },
		IsBrokenPipe,
	)
}

// WriteJSONL writes every row of every section; the "table" field of each
// line tells the sections apart.
func WriteJSONL(w io.Writer, sections []Section) error {
	in, done := StartJSONLWriter(w, 256)
	for _, s := range sections {
		for i := 0; i < s.Rows.Len(); i++ {
			in <- s.Rows.Value(i)
		}
	}
	close(in)
	return <-done
}
