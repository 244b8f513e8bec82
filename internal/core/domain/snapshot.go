package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// CurrentSchemaVersion is the snapshot format version understood by
// this build. Snapshots carrying any other version are discarded and
// a full rebuild is triggered.
const CurrentSchemaVersion = 3

// FileRecord tracks per-source bookkeeping for incremental indexing.
// A FileRecord exists iff at least one chunk for that file currently
// exists in the store.
type FileRecord struct {
	// FileID is the path or external id of the file.
	FileID string `json:"fileId"`

	// LastModified is the file's modification time at indexing.
	LastModified time.Time `json:"lastModifiedTime"`

	// ContentHash fingerprints the raw file content.
	ContentHash string `json:"contentHash"`

	// ChunkCount is the number of chunks produced for the file.
	ChunkCount int `json:"chunkCount"`
}

// IndexSnapshot is the aggregate root: all chunks and file records for
// one collection. Exactly one snapshot is active per collection at a
// time; it is replaced atomically after a successful indexing run.
type IndexSnapshot struct {
	SchemaVersion int `json:"schemaVersion"`

	// CollectionID identifies the workspace or folder this snapshot
	// covers.
	CollectionID string `json:"collectionId"`

	// EmbeddingModel records which embedding model produced the stored
	// vectors. A model change invalidates the snapshot the same way a
	// schema change does.
	EmbeddingModel string `json:"embeddingModel,omitempty"`

	LastUpdated time.Time `json:"lastUpdated"`

	Chunks []Chunk `json:"chunks"`

	// FileRecords is keyed by FileID.
	FileRecords map[string]FileRecord `json:"fileRecords"`
}

// NewIndexSnapshot creates an empty snapshot for a collection.
func NewIndexSnapshot(collectionID, embeddingModel string) *IndexSnapshot {
	return &IndexSnapshot{
		SchemaVersion:  CurrentSchemaVersion,
		CollectionID:   collectionID,
		EmbeddingModel: embeddingModel,
		FileRecords:    make(map[string]FileRecord),
	}
}

// Compatible reports whether the snapshot can be reused as a cache for
// the given collection and embedding model. An empty snapshot is never
// a usable cache.
func (s *IndexSnapshot) Compatible(collectionID, embeddingModel string) bool {
	if s == nil {
		return false
	}
	if s.SchemaVersion != CurrentSchemaVersion {
		return false
	}
	if s.CollectionID != collectionID {
		return false
	}
	if embeddingModel != "" && s.EmbeddingModel != "" && s.EmbeddingModel != embeddingModel {
		return false
	}
	return len(s.Chunks) > 0
}

// ChunksForFile returns the chunks belonging to the given file id,
// preserving stored order.
func (s *IndexSnapshot) ChunksForFile(fileID string) []Chunk {
	var out []Chunk
	for _, c := range s.Chunks {
		if c.SourcePath == fileID {
			out = append(out, c)
		}
	}
	return out
}

// Fingerprint returns the hex SHA-256 of the given content. It is the
// hash used for both file-level change detection and chunk content
// hashes.
func Fingerprint(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// IndexResult summarises an indexing run.
type IndexResult struct {
	// ChunkCount is the total number of chunks in the merged store.
	ChunkCount int

	// FileCount is the number of files with at least one indexed chunk.
	FileCount int

	// FromCache is true when no file changed and the cached snapshot
	// was returned untouched.
	FromCache bool
}
