package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dealsense/ragengine/internal/chunker"
	"github.com/dealsense/ragengine/internal/core/domain"
	"github.com/dealsense/ragengine/internal/core/ports/driven"
	"github.com/dealsense/ragengine/internal/core/ports/driving"
	"github.com/dealsense/ragengine/internal/logger"
)

// Ensure Indexer implements the interface.
var _ driving.Indexer = (*Indexer)(nil)

const (
	// embedBatchSize caps the number of texts per embedding request.
	embedBatchSize = 100

	// minContentLength is the floor below which extracted text is
	// skipped as too short to index.
	minContentLength = 50
)

// Indexer builds and incrementally maintains the index for a collection.
// Unchanged files keep their chunks and embeddings verbatim across runs;
// only changed, new and deleted files cost extraction and embedding work.
type Indexer struct {
	stores    *StoreManager
	snapshots driven.SnapshotStore
	lister    driven.FileLister
	extractor driven.TextExtractor
	embedder  driven.EmbeddingService
	chunker   *chunker.Chunker

	// indexing enforces one run per process. A concurrent request
	// fails fast rather than queuing.
	indexing atomic.Bool
}

// NewIndexer creates an indexer. The embedder is required; indexing
// aborts with domain.ErrEmbeddingUnavailable when it is nil.
func NewIndexer(
	stores *StoreManager,
	snapshots driven.SnapshotStore,
	lister driven.FileLister,
	extractor driven.TextExtractor,
	embedder driven.EmbeddingService,
	ck *chunker.Chunker,
) *Indexer {
	if ck == nil {
		ck = chunker.New()
	}
	return &Indexer{
		stores:    stores,
		snapshots: snapshots,
		lister:    lister,
		extractor: extractor,
		embedder:  embedder,
		chunker:   ck,
	}
}

// IndexCollection (re)indexes the collection.
//
//nolint:gocyclo // Orchestration function with necessary sequential steps
func (ix *Indexer) IndexCollection(ctx context.Context, collectionID string, forceFull bool) (*domain.IndexResult, error) {
	if ix.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if !ix.indexing.CompareAndSwap(false, true) {
		return nil, domain.ErrIndexingInProgress
	}
	defer ix.indexing.Store(false)

	logger.Section("Indexing")
	runID := uuid.NewString()[:8]
	logger.Info("Run %s: collection %q (forceFull=%t)", runID, collectionID, forceFull)
	defer logger.Elapsed("Run "+runID, time.Now())

	prior := ix.loadPrior(ctx, collectionID, forceFull)

	files, err := ix.lister.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	logger.Debug("Run %s: %d files listed", runID, len(files))

	// Change detection: content-hash match retains a file's chunks and
	// record untouched.
	var changed []driven.FileInfo
	var retained []domain.Chunk
	records := make(map[string]domain.FileRecord)

	for _, f := range files {
		if prior != nil {
			if rec, ok := prior.FileRecords[f.Path]; ok && rec.ContentHash == f.ContentHash {
				records[f.Path] = rec
				retained = append(retained, prior.ChunksForFile(f.Path)...)
				continue
			}
		}
		changed = append(changed, f)
	}

	deleted := 0
	if prior != nil {
		current := make(map[string]struct{}, len(files))
		for _, f := range files {
			current[f.Path] = struct{}{}
		}
		for id := range prior.FileRecords {
			if _, ok := current[id]; !ok {
				deleted++
			}
		}
	}

	logger.Debug("Run %s: %d changed, %d unchanged, %d deleted",
		runID, len(changed), len(records), deleted)

	if prior != nil && len(changed) == 0 && deleted == 0 {
		logger.Info("Run %s: no changes, serving cached snapshot", runID)
		ix.stores.Swap(prior)
		return &domain.IndexResult{
			ChunkCount: len(prior.Chunks),
			FileCount:  len(prior.FileRecords),
			FromCache:  true,
		}, nil
	}

	pending := ix.extractAndChunk(ctx, changed, records)
	embedded := ix.embedChunks(ctx, pending)

	snapshot := domain.NewIndexSnapshot(collectionID, ix.embedder.ModelName())
	snapshot.Chunks = append(retained, embedded...)
	snapshot.LastUpdated = time.Now()

	// Rebuild records from the merged chunk set so a file whose chunks
	// were all dropped by a failed batch carries no stale record.
	counts := make(map[string]int)
	for _, c := range snapshot.Chunks {
		counts[c.SourcePath]++
	}
	for id, rec := range records {
		if n := counts[id]; n > 0 {
			rec.ChunkCount = n
			snapshot.FileRecords[id] = rec
		}
	}

	if ix.snapshots != nil {
		if err := ix.snapshots.Save(ctx, snapshot); err != nil {
			return nil, fmt.Errorf("persist snapshot: %w", err)
		}
	}
	ix.stores.Swap(snapshot)

	logger.Info("Run %s complete: %d chunks across %d files",
		runID, len(snapshot.Chunks), len(snapshot.FileRecords))

	return &domain.IndexResult{
		ChunkCount: len(snapshot.Chunks),
		FileCount:  len(snapshot.FileRecords),
	}, nil
}

// loadPrior returns a usable cached snapshot or nil. Incompatibility is
// not an error, it just forces a full rebuild.
func (ix *Indexer) loadPrior(ctx context.Context, collectionID string, forceFull bool) *domain.IndexSnapshot {
	if forceFull {
		return nil
	}

	prior := ix.stores.Get(collectionID)
	if prior == nil && ix.snapshots != nil {
		loaded, err := ix.snapshots.Load(ctx, collectionID)
		if err != nil {
			logger.Warn("Snapshot load failed: %v (rebuilding)", err)
		} else {
			prior = loaded
		}
	}

	if prior != nil && !prior.Compatible(collectionID, ix.embedder.ModelName()) {
		logger.Info("Cached snapshot incompatible, full rebuild")
		return nil
	}
	return prior
}

// extractAndChunk extracts text for each changed file and chunks it.
// Extraction failures and unusable content skip the file; they never
// abort the run.
func (ix *Indexer) extractAndChunk(
	ctx context.Context, changed []driven.FileInfo, records map[string]domain.FileRecord,
) []domain.Chunk {
	var pending []domain.Chunk

	for _, f := range changed {
		text, err := ix.extractor.Extract(ctx, f.Path)
		if err != nil {
			if errors.Is(err, domain.ErrExtractionUnavailable) {
				logger.Debug("Skipping %s: extraction unavailable", f.Path)
			} else {
				logger.Warn("Extraction failed for %s: %v", f.Path, err)
			}
			continue
		}

		text = strings.TrimSpace(text)
		if len(text) < minContentLength {
			logger.Debug("Skipping %s: content too short (%d chars)", f.Path, len(text))
			continue
		}

		chunks := ix.chunker.Chunk(text, chunker.Source{Path: f.Path, Name: f.Name})
		if len(chunks) == 0 {
			continue
		}

		pending = append(pending, chunks...)
		records[f.Path] = domain.FileRecord{
			FileID:       f.Path,
			LastModified: f.ModTime,
			ContentHash:  f.ContentHash,
			ChunkCount:   len(chunks),
		}
	}
	return pending
}

// embedChunks embeds pending chunks in bounded batches. A failed batch
// is logged and dropped; the remaining batches still run.
func (ix *Indexer) embedChunks(ctx context.Context, chunks []domain.Chunk) []domain.Chunk {
	out := make([]domain.Chunk, 0, len(chunks))

	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Content
		}

		vectors, err := ix.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			logger.Warn("Embedding batch %d-%d failed: %v (dropping %d chunks)",
				start, end, err, len(batch))
			continue
		}
		if len(vectors) != len(batch) {
			logger.Warn("Embedding batch %d-%d returned %d vectors for %d texts (dropping batch)",
				start, end, len(vectors), len(batch))
			continue
		}

		for i := range batch {
			batch[i].Embedding = vectors[i]
			out = append(out, batch[i])
		}
	}
	return out
}
