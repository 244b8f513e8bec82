package driving

import (
	"context"

	"github.com/dealsense/ragengine/internal/core/domain"
)

// Indexer builds and incrementally maintains the index for a collection.
type Indexer interface {
	// IndexCollection (re)indexes the collection. Unless forceFull is
	// set, unchanged files keep their existing chunks and embeddings,
	// and a run with no file changes returns the cached snapshot with
	// FromCache set.
	//
	// Only one indexing run may be active per process. A concurrent
	// call fails fast with domain.ErrIndexingInProgress.
	IndexCollection(ctx context.Context, collectionID string, forceFull bool) (*domain.IndexResult, error)
}
