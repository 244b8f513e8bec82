// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the engine to function:
//
//   - EmbeddingService: Generates vector embeddings. Indexing aborts
//     without it before any work is performed.
//   - FileLister: Enumerates the current source files of a collection
//   - TextExtractor: Produces raw text from a source file
//   - SnapshotStore: Persists the index snapshot between runs
//
// # Optional Interfaces
//
// These can be nil - the engine degrades gracefully:
//
//   - CompletionService: Hypothetical-answer query expansion. Without it,
//     the raw query is embedded directly.
//   - RerankService: Cross-encoder precision pass. Without it, the hybrid
//     ranking is used as-is.
//   - ScopeStore: Deal/tenant associations. Without it, scoped search
//     behaves like unscoped search.
//   - ConfigStore: Persistent engine tunables. Without it, compiled-in
//     defaults apply.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
