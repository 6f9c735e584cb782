// Package pipeline streams FASTA targets, pairs each with the profiles that
// seeded it, aligns the pairs on a worker pool and hands every reported
// alignment to a visit callback from a single collector goroutine.
//
// The only contract to implement is Aligner (AlignPair).
// This keeps the pipeline swappable and testable.
package pipeline
