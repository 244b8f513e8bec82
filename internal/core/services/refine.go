package services

import (
	"context"
	"sort"
	"strings"

	"github.com/dealsense/ragengine/internal/core/domain"
	"github.com/dealsense/ragengine/internal/logger"
)

const (
	// candidateMultiplier widens the pool handed to the reranker
	// relative to the final result size.
	candidateMultiplier = 4

	// minCandidatePool is the smallest pool worth reranking.
	minCandidatePool = 20
)

// refine turns the hybrid ranking into final results: optional rerank,
// parent-context expansion, then scope preference with backfill.
func (s *SearchService) refine(
	ctx context.Context,
	query string,
	ranked []domain.ScoredChunk,
	topK int,
	snapshot *domain.IndexSnapshot,
	scopeID string,
) []domain.ScoredChunk {
	pool := candidateMultiplier * topK
	if pool < minCandidatePool {
		pool = minCandidatePool
	}
	if pool > len(ranked) {
		pool = len(ranked)
	}
	candidates := ranked[:pool]

	candidates = s.rerankCandidates(ctx, query, candidates)
	expanded := expandParents(candidates, snapshot)

	if scopeID != "" && s.scopes != nil {
		return s.applyScope(ctx, expanded, scopeID, topK)
	}
	if len(expanded) > topK {
		expanded = expanded[:topK]
	}
	return expanded
}

// rerankCandidates submits the candidate texts to the external reranker
// and merges by taking the maximum of hybrid and reranked score per
// chunk, so a conservative reranker cannot push a chunk below the
// display threshold. Any failure keeps the hybrid order.
func (s *SearchService) rerankCandidates(
	ctx context.Context, query string, candidates []domain.ScoredChunk,
) []domain.ScoredChunk {
	if s.reranker == nil || len(candidates) == 0 {
		return candidates
	}

	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.Chunk.Content
	}

	results, err := s.reranker.Rerank(ctx, query, texts, len(texts))
	if err != nil {
		logger.Warn("Rerank failed: %v (keeping hybrid order)", err)
		return candidates
	}
	logger.Debug("Reranked %d candidates", len(results))

	merged := make([]domain.ScoredChunk, len(candidates))
	copy(merged, candidates)
	for _, r := range results {
		if r.Index < 0 || r.Index >= len(merged) {
			continue
		}
		if r.RelevanceScore > merged[r.Index].Score {
			merged[r.Index].Score = r.RelevanceScore
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})
	return merged
}

// expandParents substitutes each selected child with its parent chunk,
// carrying the child's score, and deduplicates so a parent appears at
// most once even when several of its children were selected. Chunks
// without a resolvable parent pass through unchanged.
func expandParents(results []domain.ScoredChunk, snapshot *domain.IndexSnapshot) []domain.ScoredChunk {
	parents := make(map[string]domain.Chunk)
	for _, c := range snapshot.Chunks {
		if c.Type == domain.ChunkTypeParent {
			parents[c.ID] = c
		}
	}

	seen := make(map[string]struct{})
	out := make([]domain.ScoredChunk, 0, len(results))

	for _, r := range results {
		if r.Chunk.IsChild() && r.Chunk.ParentID != "" {
			if parent, ok := parents[r.Chunk.ParentID]; ok {
				if _, dup := seen[parent.ID]; dup {
					continue
				}
				seen[parent.ID] = struct{}{}
				r.Chunk = parent
				out = append(out, r)
				continue
			}
		}
		if _, dup := seen[r.Chunk.ID]; dup {
			continue
		}
		seen[r.Chunk.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}

// applyScope partitions results into scope-matching and other, prefers
// the matching ones, and backfills with the highest-ranked others until
// topK is reached or candidates are exhausted. Backfilled results carry
// the OutOfScope annotation for caller-side disclosure.
func (s *SearchService) applyScope(
	ctx context.Context, results []domain.ScoredChunk, scopeID string, topK int,
) []domain.ScoredChunk {
	scopeDocs, err := s.scopes.DocumentsForScope(ctx, scopeID)
	if err != nil {
		logger.Warn("Scope lookup for %q failed: %v (returning unscoped results)", scopeID, err)
		if len(results) > topK {
			results = results[:topK]
		}
		return results
	}

	var matching, other []domain.ScoredChunk
	for _, r := range results {
		if s.inScope(ctx, r.Chunk, scopeID, scopeDocs) {
			matching = append(matching, r)
		} else {
			r.OutOfScope = true
			other = append(other, r)
		}
	}
	logger.Debug("Scope %q: %d matching, %d other", scopeID, len(matching), len(other))

	final := matching
	if len(final) > topK {
		final = final[:topK]
	}
	for _, r := range other {
		if len(final) >= topK {
			break
		}
		final = append(final, r)
	}
	return final
}

// inScope resolves a chunk's scope membership once: direct association,
// then path containment against the scope's document paths, then the
// reverse association lookup.
func (s *SearchService) inScope(
	ctx context.Context, chunk domain.Chunk, scopeID string, scopeDocs map[string]struct{},
) bool {
	if _, ok := scopeDocs[chunk.SourcePath]; ok {
		return true
	}
	for doc := range scopeDocs {
		if doc != "" && strings.Contains(chunk.SourcePath, doc) {
			return true
		}
	}

	scopes, err := s.scopes.ScopesForDocument(ctx, chunk.SourcePath)
	if err != nil {
		logger.Debug("Reverse scope lookup for %s failed: %v", chunk.SourcePath, err)
		return false
	}
	for _, id := range scopes {
		if id == scopeID {
			return true
		}
	}
	return false
}
