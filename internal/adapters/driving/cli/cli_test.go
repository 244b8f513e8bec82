package cli

import (
	"context"

	"github.com/dealsense/ragengine/internal/core/domain"
)

// --- Mock implementations ---

// mockIndexer implements driving.Indexer for testing.
type mockIndexer struct {
	result        *domain.IndexResult
	err           error
	gotCollection string
	gotForce      bool
}

func (m *mockIndexer) IndexCollection(_ context.Context, collectionID string, forceFull bool) (*domain.IndexResult, error) {
	m.gotCollection = collectionID
	m.gotForce = forceFull
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

// mockSearchService implements driving.SearchService for testing.
type mockSearchService struct {
	results  []domain.ScoredChunk
	err      error
	gotQuery string
	gotOpts  domain.SearchOptions
}

func (m *mockSearchService) Search(_ context.Context, _, query string, opts domain.SearchOptions) ([]domain.ScoredChunk, error) {
	m.gotQuery = query
	m.gotOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

// setupTestServices wires mock services and returns them with a cleanup
// restoring the previous wiring and flag defaults.
func setupTestServices() (*mockIndexer, *mockSearchService, func()) {
	ix := &mockIndexer{result: &domain.IndexResult{ChunkCount: 12, FileCount: 3}}
	search := &mockSearchService{results: []domain.ScoredChunk{
		{
			Chunk: domain.Chunk{
				ID:             "docs/report.txt::p1",
				SourcePath:     "docs/report.txt",
				SourceName:     "report.txt",
				SectionHeading: "Executive Summary",
				Content:        "Revenue grew 40% in the third quarter.",
				Type:           domain.ChunkTypeParent,
			},
			Score: 0.91,
		},
	}}
	SetServices(ix, search)

	return ix, search, func() {
		SetServices(nil, nil)
		collectionID = "default"
		indexForce = false
		searchTopK = 5
		searchScope = ""
		searchJSON = false
		searchNoExpand = false
	}
}
