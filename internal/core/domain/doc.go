// Package domain defines the core business entities for the retrieval engine.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Chunk: A span of source text indexed as a retrieval unit
//   - FileRecord: Per-source bookkeeping for incremental indexing
//   - IndexSnapshot: The aggregate root persisted between runs
//   - ScoredChunk: A retrieval result with its score breakdown
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
