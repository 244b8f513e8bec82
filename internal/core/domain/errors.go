package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrIndexingInProgress indicates an indexing run is already active.
	// The condition is retryable: callers should wait and try again
	// rather than treat it as a failure.
	ErrIndexingInProgress = errors.New("indexing in progress")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Indexing and semantic search cannot proceed without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrExtractionUnavailable indicates text extraction produced a
	// placeholder rather than genuine content. The file is skipped
	// without corrupting the index.
	ErrExtractionUnavailable = errors.New("text extraction unavailable")

	// ErrRerankUnavailable indicates the rerank service is not
	// configured. Ranking falls back to the hybrid score order.
	ErrRerankUnavailable = errors.New("rerank service unavailable")

	// ErrCompletionUnavailable indicates the completion service used
	// for query expansion is not configured.
	ErrCompletionUnavailable = errors.New("completion service unavailable")
)
