package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealsense/ragengine/internal/core/domain"
)

func childChunk(id, path, content string, emb []float32) domain.Chunk {
	return domain.Chunk{
		ID:         id,
		SourcePath: path,
		SourceName: path,
		Content:    content,
		Embedding:  emb,
		Type:       domain.ChunkTypeChild,
	}
}

func parentChunk(id, path, content string) domain.Chunk {
	return domain.Chunk{
		ID:         id,
		SourcePath: path,
		SourceName: path,
		Content:    content,
		Type:       domain.ChunkTypeParent,
	}
}

func swapSnapshot(stores *StoreManager, chunks ...domain.Chunk) {
	snapshot := domain.NewIndexSnapshot(testCollection, "mock-embed")
	snapshot.Chunks = chunks
	stores.Swap(snapshot)
}

func newSearchFixture(chunks ...domain.Chunk) (*SearchService, *mockEmbedder) {
	stores := NewStoreManager()
	if len(chunks) > 0 {
		swapSnapshot(stores, chunks...)
	}
	embedder := &mockEmbedder{embedding: []float32{1, 0}}
	return NewSearchService(stores, nil, embedder, nil, nil, nil), embedder
}

func TestSearch_EmptyQuery(t *testing.T) {
	svc, _ := newSearchFixture(
		childChunk("a", "docs/a.txt", "Revenue grew fast.", []float32{1, 0}),
	)

	results, err := svc.Search(context.Background(), testCollection, "   ", domain.SearchOptions{})

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_NoIndex(t *testing.T) {
	svc, _ := newSearchFixture()

	results, err := svc.Search(context.Background(), testCollection, "revenue", domain.SearchOptions{})

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_HydratesFromPersistedSnapshot(t *testing.T) {
	// A fresh process has an empty StoreManager; the index built by a
	// previous run must still be reachable through the snapshot store.
	persisted := domain.NewIndexSnapshot(testCollection, "mock-embed")
	persisted.Chunks = []domain.Chunk{
		childChunk("a", "docs/a.txt", "Revenue grew fast.", []float32{1, 0}),
	}
	stores := NewStoreManager()
	snapshots := &mockSnapshotStore{loaded: persisted}
	embedder := &mockEmbedder{embedding: []float32{1, 0}}
	svc := NewSearchService(stores, snapshots, embedder, nil, nil, nil)

	results, err := svc.Search(context.Background(), testCollection, "revenue", domain.SearchOptions{})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].Chunk.ID)
	// The store is hydrated so later searches skip the load.
	assert.NotNil(t, stores.Get(testCollection))
}

func TestSearch_IgnoresIncompatiblePersistedSnapshot(t *testing.T) {
	persisted := domain.NewIndexSnapshot(testCollection, "other-embed")
	persisted.Chunks = []domain.Chunk{
		childChunk("a", "docs/a.txt", "Revenue grew fast.", []float32{1, 0}),
	}
	stores := NewStoreManager()
	snapshots := &mockSnapshotStore{loaded: persisted}
	embedder := &mockEmbedder{embedding: []float32{1, 0}}
	svc := NewSearchService(stores, snapshots, embedder, nil, nil, nil)

	results, err := svc.Search(context.Background(), testCollection, "revenue", domain.SearchOptions{})

	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Nil(t, stores.Get(testCollection))
}

func TestSearch_SnapshotLoadFailureYieldsNoResults(t *testing.T) {
	stores := NewStoreManager()
	snapshots := &mockSnapshotStore{loadErr: fmt.Errorf("disk gone")}
	embedder := &mockEmbedder{embedding: []float32{1, 0}}
	svc := NewSearchService(stores, snapshots, embedder, nil, nil, nil)

	results, err := svc.Search(context.Background(), testCollection, "revenue", domain.SearchOptions{})

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_NilEmbedder(t *testing.T) {
	stores := NewStoreManager()
	swapSnapshot(stores, childChunk("a", "docs/a.txt", "Revenue grew fast.", []float32{1, 0}))
	svc := NewSearchService(stores, nil, nil, nil, nil, nil)

	results, err := svc.Search(context.Background(), testCollection, "revenue", domain.SearchOptions{})

	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	assert.Nil(t, results)
}

func TestSearch_ParentsNotScoredDirectly(t *testing.T) {
	// A snapshot holding only parent chunks has nothing to score.
	svc, _ := newSearchFixture(
		parentChunk("docs/a.txt::p1", "docs/a.txt", "Revenue grew fast across all segments this year."),
	)

	results, err := svc.Search(context.Background(), testCollection, "revenue", domain.SearchOptions{})

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_HybridRanking(t *testing.T) {
	svc, _ := newSearchFixture(
		childChunk("a", "docs/a.txt", "Revenue growth accelerated in the second quarter.", []float32{1, 0}),
		childChunk("b", "docs/b.txt", "The office lease renews in March next year.", []float32{0, 1}),
	)

	results, err := svc.Search(context.Background(), testCollection, "revenue growth", domain.SearchOptions{})

	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "a", results[0].Chunk.ID)
	assert.Greater(t, results[0].Score, results[1].Score)
	assert.InDelta(t, 1.0, results[0].VectorScore, 1e-6)
	assert.Greater(t, results[0].LexicalScore, 0.0)
	assert.LessOrEqual(t, results[0].Score, 1.0)
	assert.GreaterOrEqual(t, results[1].Score, 0.0)
}

func TestSearch_LexicalBreaksSemanticTie(t *testing.T) {
	// Identical embeddings: the lexical component must decide the order.
	svc, _ := newSearchFixture(
		childChunk("match", "docs/a.txt", "Churn improved because retention campaigns worked.", []float32{1, 0}),
		childChunk("other", "docs/b.txt", "Headcount stayed flat over the period measured.", []float32{1, 0}),
	)

	results, err := svc.Search(context.Background(), testCollection, "churn retention", domain.SearchOptions{})

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "match", results[0].Chunk.ID)
}

func TestSearch_FloorKeepsBestWeakMatches(t *testing.T) {
	// All chunks score below the relevance threshold; the floor still
	// returns the best few instead of nothing.
	var chunks []domain.Chunk
	for i := 0; i < 6; i++ {
		chunks = append(chunks, childChunk(
			fmt.Sprintf("c%d", i), fmt.Sprintf("docs/%d.txt", i),
			"Completely unrelated filler prose about logistics.",
			[]float32{0, 1},
		))
	}
	svc, _ := newSearchFixture(chunks...)

	results, err := svc.Search(context.Background(), testCollection, "revenue growth", domain.SearchOptions{})

	require.NoError(t, err)
	assert.Len(t, results, minResultFloor)
}

func TestSearch_TopKTruncates(t *testing.T) {
	var chunks []domain.Chunk
	for i := 0; i < 8; i++ {
		chunks = append(chunks, childChunk(
			fmt.Sprintf("c%d", i), fmt.Sprintf("docs/%d.txt", i),
			"Revenue growth accelerated again this period.",
			[]float32{1, 0},
		))
	}
	svc, _ := newSearchFixture(chunks...)

	results, err := svc.Search(context.Background(), testCollection, "revenue growth",
		domain.SearchOptions{TopK: 2})

	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearch_QueryExpansion(t *testing.T) {
	stores := NewStoreManager()
	swapSnapshot(stores, childChunk("a", "docs/a.txt", "Revenue growth accelerated.", []float32{1, 0}))
	embedder := &mockEmbedder{embedding: []float32{1, 0}}
	completion := &mockCompletion{passage: "Revenue grew 40% year over year, driven by enterprise expansion."}
	svc := NewSearchService(stores, nil, embedder, completion, nil, nil)

	_, err := svc.Search(context.Background(), testCollection, "how fast is revenue growing", domain.SearchOptions{})

	require.NoError(t, err)
	assert.Equal(t, 1, completion.calls)
	assert.True(t, strings.HasPrefix(embedder.lastText, "how fast is revenue growing"))
	assert.Contains(t, embedder.lastText, completion.passage)
}

func TestSearch_QueryExpansionDisabled(t *testing.T) {
	stores := NewStoreManager()
	swapSnapshot(stores, childChunk("a", "docs/a.txt", "Revenue growth accelerated.", []float32{1, 0}))
	embedder := &mockEmbedder{embedding: []float32{1, 0}}
	completion := &mockCompletion{passage: "should not be used"}
	svc := NewSearchService(stores, nil, embedder, completion, nil, nil)

	_, err := svc.Search(context.Background(), testCollection, "revenue",
		domain.SearchOptions{DisableExpansion: true})

	require.NoError(t, err)
	assert.Equal(t, 0, completion.calls)
	assert.Equal(t, "revenue", embedder.lastText)
}

func TestSearch_QueryExpansionFailureFallsBack(t *testing.T) {
	stores := NewStoreManager()
	swapSnapshot(stores, childChunk("a", "docs/a.txt", "Revenue growth accelerated.", []float32{1, 0}))
	embedder := &mockEmbedder{embedding: []float32{1, 0}}
	completion := &mockCompletion{completeErr: fmt.Errorf("model overloaded")}
	svc := NewSearchService(stores, nil, embedder, completion, nil, nil)

	results, err := svc.Search(context.Background(), testCollection, "revenue", domain.SearchOptions{})

	require.NoError(t, err)
	assert.NotEmpty(t, results)
	assert.Equal(t, "revenue", embedder.lastText)
}

func TestSearch_ExpandedEmbeddingFailureRetriesRaw(t *testing.T) {
	stores := NewStoreManager()
	swapSnapshot(stores, childChunk("a", "docs/a.txt", "Revenue growth accelerated.", []float32{1, 0}))
	embedder := &mockEmbedder{
		embedding: []float32{1, 0},
		embedErrFor: func(text string) error {
			if strings.Contains(text, "\n\n") {
				return fmt.Errorf("input too long")
			}
			return nil
		},
	}
	completion := &mockCompletion{passage: "A long hypothetical answer passage."}
	svc := NewSearchService(stores, nil, embedder, completion, nil, nil)

	results, err := svc.Search(context.Background(), testCollection, "revenue", domain.SearchOptions{})

	require.NoError(t, err)
	assert.NotEmpty(t, results)
	assert.Equal(t, "revenue", embedder.lastText)
}

func TestSearch_EmbedFailure(t *testing.T) {
	stores := NewStoreManager()
	swapSnapshot(stores, childChunk("a", "docs/a.txt", "Revenue growth accelerated.", []float32{1, 0}))
	embedder := &mockEmbedder{embedErr: fmt.Errorf("api down")}
	svc := NewSearchService(stores, nil, embedder, nil, nil, nil)

	results, err := svc.Search(context.Background(), testCollection, "revenue", domain.SearchOptions{})

	assert.Error(t, err)
	assert.Nil(t, results)
}

func TestSetWeights(t *testing.T) {
	svc, _ := newSearchFixture()

	require.NoError(t, svc.SetWeights(0.5, 0.5))
	assert.InDelta(t, 0.5, svc.vectorWeight, 1e-9)

	assert.ErrorIs(t, svc.SetWeights(0.9, 0.2), domain.ErrInvalidInput)
	assert.ErrorIs(t, svc.SetWeights(-0.2, 1.2), domain.ErrInvalidInput)
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0}, []float32{1, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"length mismatch", []float32{1, 0}, []float32{1}, 0},
		{"empty", nil, nil, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, cosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestHybridScore_MonotonicAndBounded(t *testing.T) {
	weights := []struct{ vector, lexical float64 }{
		{DefaultVectorWeight, DefaultLexicalWeight},
		{0.5, 0.5},
		{1, 0},
	}
	steps := []float64{0, 0.1, 0.25, 0.5, 0.75, 0.9, 1}

	for _, w := range weights {
		svc, _ := newSearchFixture()
		require.NoError(t, svc.SetWeights(w.vector, w.lexical))

		// Raising one sub-score with the other held fixed never
		// lowers the blend, and bounded inputs keep it in [0,1].
		for _, fixed := range steps {
			prevV := -1.0
			prevL := -1.0
			for _, x := range steps {
				gotV := svc.hybridScore(x, fixed)
				gotL := svc.hybridScore(fixed, x)
				assert.GreaterOrEqual(t, gotV, prevV)
				assert.GreaterOrEqual(t, gotL, prevL)
				for _, got := range []float64{gotV, gotL} {
					assert.GreaterOrEqual(t, got, 0.0)
					assert.LessOrEqual(t, got, 1.0)
				}
				prevV = gotV
				prevL = gotL
			}
		}
	}
}
