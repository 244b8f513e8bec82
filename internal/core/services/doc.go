// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The Indexer builds and incrementally maintains per-collection
// snapshots; the SearchService answers relevance queries over them.
// Both share a StoreManager that owns the active snapshot per
// collection and swaps it atomically after a successful merge.
package services
