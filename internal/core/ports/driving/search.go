package driving

import (
	"context"

	"github.com/dealsense/ragengine/internal/core/domain"
)

// SearchService answers relevance queries over an indexed collection.
type SearchService interface {
	// Search ranks chunks of the collection against the query using
	// combined semantic and lexical scoring, then refines the shortlist
	// with optional reranking, parent-context expansion and scope
	// preference. A search on an empty or absent index returns an
	// empty result list, never an error.
	Search(ctx context.Context, collectionID, query string, opts domain.SearchOptions) ([]domain.ScoredChunk, error)
}
