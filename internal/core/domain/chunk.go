package domain

// ChunkType distinguishes structural parent chunks from the smaller
// child chunks used for matching.
type ChunkType string

const (
	// ChunkTypeParent is a larger context window. Parents are never
	// returned by the scoring stage directly, only via expansion.
	ChunkTypeParent ChunkType = "parent"

	// ChunkTypeChild is a small matching unit linked back to its parent.
	ChunkTypeChild ChunkType = "child"
)

// Chunk represents a contiguous span of source text indexed as a
// retrieval unit.
type Chunk struct {
	// ID is the stable identifier, derived from the source file and
	// the chunk's sequence within it.
	ID string `json:"id"`

	// SourcePath is the path or external id of the originating file.
	SourcePath string `json:"sourcePath"`

	// SourceName is the human-readable file name.
	SourceName string `json:"sourceName"`

	// Content is the chunk text.
	Content string `json:"content"`

	// Embedding is the vector representation for semantic search.
	// Retained verbatim across re-index runs for unchanged files.
	Embedding []float32 `json:"embedding,omitempty"`

	// ChunkIndex is the ordinal position within the source.
	ChunkIndex int `json:"chunkIndex"`

	// TotalChunks is the number of chunks emitted for the source.
	TotalChunks int `json:"totalChunks"`

	// PageNumber is the 1-based page for paginated sources, 0 otherwise.
	PageNumber int `json:"pageNumber,omitempty"`

	// SectionHeading is the detected heading of the enclosing section.
	SectionHeading string `json:"sectionHeading,omitempty"`

	// Type is parent or child.
	Type ChunkType `json:"chunkType"`

	// ParentID links a child chunk to its parent. Empty on parents.
	// Every child's ParentID resolves to exactly one parent within
	// the same source.
	ParentID string `json:"parentId,omitempty"`

	// ContentHash fingerprints the chunk content.
	ContentHash string `json:"contentHash"`
}

// IsChild reports whether the chunk participates in scoring.
func (c Chunk) IsChild() bool {
	return c.Type == ChunkTypeChild
}
