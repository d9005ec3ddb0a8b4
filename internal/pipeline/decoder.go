// internal/pipeline/decoder.go
package pipeline

import "panama-core/corsika"

// Decoder turns one input path into its runs. corsika.ReadFile is the
// default; fakes in tests can satisfy it too.
type Decoder func(path string) ([]corsika.Run, error)
