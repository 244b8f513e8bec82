package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/dealsense/ragengine/internal/core/domain"
	"github.com/dealsense/ragengine/internal/core/ports/driven"
	"github.com/dealsense/ragengine/internal/core/ports/driving"
	"github.com/dealsense/ragengine/internal/lexical"
	"github.com/dealsense/ragengine/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

const (
	// DefaultTopK is the result count when the caller does not specify one.
	DefaultTopK = 5

	// DefaultVectorWeight and DefaultLexicalWeight blend the two
	// sub-scores. They must sum to 1.
	DefaultVectorWeight  = 0.7
	DefaultLexicalWeight = 0.3

	// relevanceThreshold filters weak matches from the ranking.
	relevanceThreshold = 0.25

	// minResultFloor keeps up to this many best-scoring chunks even
	// when fewer clear the threshold, so a nonempty pool never yields
	// an empty result.
	minResultFloor = 3
)

// hydeSystemPrompt asks the completion model for a short hypothetical
// answer whose embedding improves semantic recall over the raw query.
const hydeSystemPrompt = "You write a short hypothetical passage that would answer the user's question. " +
	"Write 2-3 sentences of plausible content as it might appear in a business document. " +
	"Do not address the user or explain yourself."

// SearchService answers relevance queries with hybrid semantic+lexical
// scoring, optionally refined by an external reranker, parent-context
// expansion and deal scoping.
type SearchService struct {
	stores     *StoreManager
	snapshots  driven.SnapshotStore
	embedder   driven.EmbeddingService
	completion driven.CompletionService
	reranker   driven.RerankService
	scopes     driven.ScopeStore

	vectorWeight  float64
	lexicalWeight float64
}

// NewSearchService creates a search service. The embedder is required;
// snapshots, completion, reranker and scopes are optional (can be nil)
// and degrade gracefully when absent. When a snapshot store is given,
// a search in a fresh process hydrates the in-memory store from it, so
// an index built by a previous run stays visible.
func NewSearchService(
	stores *StoreManager,
	snapshots driven.SnapshotStore,
	embedder driven.EmbeddingService,
	completion driven.CompletionService,
	reranker driven.RerankService,
	scopes driven.ScopeStore,
) *SearchService {
	return &SearchService{
		stores:        stores,
		snapshots:     snapshots,
		embedder:      embedder,
		completion:    completion,
		reranker:      reranker,
		scopes:        scopes,
		vectorWeight:  DefaultVectorWeight,
		lexicalWeight: DefaultLexicalWeight,
	}
}

// SetWeights overrides the hybrid blend. The weights must be
// non-negative and sum to 1.
func (s *SearchService) SetWeights(vector, lexical float64) error {
	if vector < 0 || lexical < 0 || math.Abs(vector+lexical-1) > 1e-9 {
		return fmt.Errorf("%w: hybrid weights must be non-negative and sum to 1", domain.ErrInvalidInput)
	}
	s.vectorWeight = vector
	s.lexicalWeight = lexical
	return nil
}

// Search ranks child chunks of the collection against the query.
func (s *SearchService) Search(
	ctx context.Context, collectionID, query string, opts domain.SearchOptions,
) ([]domain.ScoredChunk, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q (collection %q)", query, collectionID)
	defer logger.Elapsed("Search", time.Now())

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.ScoredChunk{}, nil
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	snapshot := s.stores.Get(collectionID)
	if snapshot == nil {
		snapshot = s.loadPersisted(ctx, collectionID)
	}
	if snapshot == nil || len(snapshot.Chunks) == 0 {
		logger.Debug("No index for collection %q, returning no results", collectionID)
		return []domain.ScoredChunk{}, nil
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	queryEmbedding, err := s.embedQuery(ctx, query, opts.DisableExpansion)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	// Only child chunks participate in scoring; parents come back via
	// expansion. Lexical stats are computed once over the child corpus.
	var children []domain.Chunk
	var docs [][]string
	for _, c := range snapshot.Chunks {
		if c.IsChild() {
			children = append(children, c)
			docs = append(docs, lexical.Tokenize(c.Content))
		}
	}
	if len(children) == 0 {
		return []domain.ScoredChunk{}, nil
	}

	stats := lexical.NewCorpusStats(docs)
	queryTerms := lexical.Tokenize(query)
	logger.Debug("Scoring %d child chunks (%d query terms, avg doc len %.1f)",
		len(children), len(queryTerms), stats.AvgDocLen())

	scored := make([]domain.ScoredChunk, 0, len(children))
	for i, c := range children {
		v := cosineSimilarity(queryEmbedding, c.Embedding)
		l := stats.NormalizedScore(queryTerms, docs[i])
		scored = append(scored, domain.ScoredChunk{
			Chunk:        c,
			Score:        s.hybridScore(v, l),
			VectorScore:  v,
			LexicalScore: l,
		})
	}

	ranked := thresholdAndRank(scored)
	logger.Debug("%d chunks after threshold", len(ranked))

	results := s.refine(ctx, query, ranked, topK, snapshot, opts.ScopeID)
	logger.Info("Final results: %d", len(results))
	return results, nil
}

// loadPersisted hydrates the in-memory store from the snapshot store,
// so a fresh process can search an index a previous run built. A stale
// or incompatible snapshot is ignored; the next indexing run rebuilds.
func (s *SearchService) loadPersisted(ctx context.Context, collectionID string) *domain.IndexSnapshot {
	if s.snapshots == nil {
		return nil
	}
	snapshot, err := s.snapshots.Load(ctx, collectionID)
	if err != nil {
		logger.Warn("Loading persisted snapshot for %q failed: %v", collectionID, err)
		return nil
	}
	if snapshot == nil {
		return nil
	}
	if !snapshot.Compatible(collectionID, s.embedder.ModelName()) {
		logger.Debug("Persisted snapshot for %q is incompatible, ignoring", collectionID)
		return nil
	}
	logger.Debug("Hydrated collection %q from persisted snapshot (%d chunks)",
		collectionID, len(snapshot.Chunks))
	s.stores.Swap(snapshot)
	return snapshot
}

// hybridScore blends the semantic and lexical sub-scores. With both
// inputs in [0,1] and the weights summing to 1, the blend stays in
// [0,1] and never decreases when either sub-score grows.
func (s *SearchService) hybridScore(vector, lexical float64) float64 {
	return s.vectorWeight*vector + s.lexicalWeight*lexical
}

// embedQuery embeds the query, optionally expanded with a hypothetical
// answer. Expansion is best-effort: any failure falls back to the raw
// query and is never fatal.
func (s *SearchService) embedQuery(ctx context.Context, query string, disableExpansion bool) ([]float32, error) {
	text := query

	if s.completion != nil && !disableExpansion {
		passage, err := s.completion.Complete(ctx, hydeSystemPrompt, query)
		if err != nil {
			logger.Warn("Query expansion failed: %v (embedding raw query)", err)
		} else if p := strings.TrimSpace(passage); p != "" {
			text = query + "\n\n" + p
			logger.Debug("Query expanded with hypothetical answer (%d chars)", len(p))
		}
	}

	embedding, err := s.embedder.Embed(ctx, text)
	if err != nil && text != query {
		logger.Warn("Embedding expanded query failed: %v (retrying raw query)", err)
		return s.embedder.Embed(ctx, query)
	}
	return embedding, err
}

// thresholdAndRank sorts by score descending (stable, so scan order
// breaks ties deterministically) and applies the relevance threshold
// with the floor behaviour.
func thresholdAndRank(scored []domain.ScoredChunk) []domain.ScoredChunk {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	above := 0
	for _, sc := range scored {
		if sc.Score < relevanceThreshold {
			break
		}
		above++
	}

	if above >= minResultFloor {
		return scored[:above]
	}
	floor := minResultFloor
	if floor > len(scored) {
		floor = len(scored)
	}
	return scored[:floor]
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched or zero-length vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
