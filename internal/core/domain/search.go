package domain

// SearchOptions configures a search query.
type SearchOptions struct {
	// TopK is the maximum number of results (default 5).
	TopK int

	// ScopeID restricts result preference to a deal/tenant scope.
	// Empty means no scoping.
	ScopeID string

	// DisableExpansion skips the hypothetical-answer query rewrite
	// even when a completion service is configured.
	DisableExpansion bool
}

// ScoredChunk is a retrieval result: a chunk plus its score breakdown.
type ScoredChunk struct {
	// Chunk is the matched chunk. After context expansion this may be
	// the parent of the child that actually matched.
	Chunk Chunk `json:"chunk"`

	// Score is the final relevance score used for ranking.
	Score float64 `json:"score"`

	// VectorScore is the cosine similarity component.
	VectorScore float64 `json:"vector_score"`

	// LexicalScore is the normalised BM25 component.
	LexicalScore float64 `json:"lexical_score"`

	// OutOfScope marks results backfilled from outside the requested
	// scope, for caller-side disclosure. Always false when no scope
	// was requested.
	OutOfScope bool `json:"out_of_scope,omitempty"`
}
