// Package pipeline decodes many simulator output files concurrently and
// merges them, in input order, into one set of run, event and particle
// tables.
//
// The only seam is Decoder, so tests can substitute the file reader.
package pipeline
