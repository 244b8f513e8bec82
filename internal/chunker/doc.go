// Package chunker splits raw document text into hierarchical
// parent/child chunks.
//
// Sections are detected with heading heuristics, parents are built per
// section at a large target size, and each parent is split into small
// overlapping child chunks used for matching. Output is deterministic:
// the same input always yields the same chunk sequence with the same
// ids and parent/child links.
package chunker
