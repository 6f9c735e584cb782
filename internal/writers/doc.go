// Package writers turns reported alignments into serialized outputs.
//
// Writers own all presentation knowledge (TSV rows, pretty blocks, JSON/JSONL).
// The engine stays domain-only and the pipeline stays orchestration-only.
// JSON and JSONL go through pkg/api (v1) for a stable wire format.
package writers
