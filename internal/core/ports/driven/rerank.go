package driven

import "context"

// RerankService re-scores a shortlist of candidate documents against a
// query with a higher-precision model. This is an optional service -
// when nil, the hybrid ranking is truncated as-is.
type RerankService interface {
	// Rerank scores documents against the query and returns results in
	// relevance order, at most topN of them. Index refers back into the
	// documents slice.
	Rerank(ctx context.Context, query string, documents []string, topN int) ([]RerankResult, error)

	// Close releases resources.
	Close() error
}

// RerankResult is one reranked document.
type RerankResult struct {
	// Index is the position of the document in the submitted slice.
	Index int

	// RelevanceScore is the reranker's score, normalised to [0,1].
	RelevanceScore float64
}
