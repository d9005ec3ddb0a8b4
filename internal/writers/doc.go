// Package writers turns run, event and particle tables and derived results
// into serialized outputs.
//
// Design:
//   - Writers own all presentation knowledge (TSV, JSONL, SQLite).
//   - Core packages stay domain-only; the pipeline stays orchestration-only.
//   - JSONL goes through pkg/api (v1) for a stable wire format.
package writers
