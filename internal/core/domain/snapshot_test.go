package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIndexSnapshot(t *testing.T) {
	s := NewIndexSnapshot("workspace-1", "text-embedding-3-small")

	assert.Equal(t, CurrentSchemaVersion, s.SchemaVersion)
	assert.Equal(t, "workspace-1", s.CollectionID)
	assert.Equal(t, "text-embedding-3-small", s.EmbeddingModel)
	require.NotNil(t, s.FileRecords)
	assert.Empty(t, s.Chunks)
}

func TestIndexSnapshot_Compatible(t *testing.T) {
	base := func() *IndexSnapshot {
		s := NewIndexSnapshot("workspace-1", "model-a")
		s.Chunks = []Chunk{{ID: "f.txt::p0", Type: ChunkTypeParent}}
		return s
	}

	t.Run("matching snapshot is compatible", func(t *testing.T) {
		assert.True(t, base().Compatible("workspace-1", "model-a"))
	})

	t.Run("nil snapshot", func(t *testing.T) {
		var s *IndexSnapshot
		assert.False(t, s.Compatible("workspace-1", "model-a"))
	})

	t.Run("schema version mismatch", func(t *testing.T) {
		s := base()
		s.SchemaVersion = CurrentSchemaVersion - 1
		assert.False(t, s.Compatible("workspace-1", "model-a"))
	})

	t.Run("collection mismatch", func(t *testing.T) {
		assert.False(t, base().Compatible("workspace-2", "model-a"))
	})

	t.Run("embedding model mismatch", func(t *testing.T) {
		assert.False(t, base().Compatible("workspace-1", "model-b"))
	})

	t.Run("unknown embedding model accepted", func(t *testing.T) {
		// Older snapshots without a recorded model stay usable.
		s := base()
		s.EmbeddingModel = ""
		assert.True(t, s.Compatible("workspace-1", "model-a"))
	})

	t.Run("empty snapshot is not a usable cache", func(t *testing.T) {
		s := base()
		s.Chunks = nil
		assert.False(t, s.Compatible("workspace-1", "model-a"))
	})
}

func TestIndexSnapshot_ChunksForFile(t *testing.T) {
	s := NewIndexSnapshot("w", "m")
	s.Chunks = []Chunk{
		{ID: "a.txt::p0", SourcePath: "a.txt"},
		{ID: "b.txt::p0", SourcePath: "b.txt"},
		{ID: "a.txt::p0.c0", SourcePath: "a.txt"},
	}

	got := s.ChunksForFile("a.txt")
	require.Len(t, got, 2)
	assert.Equal(t, "a.txt::p0", got[0].ID)
	assert.Equal(t, "a.txt::p0.c0", got[1].ID)
	assert.Empty(t, s.ChunksForFile("missing.txt"))
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint("same content")
	b := Fingerprint("same content")
	c := Fingerprint("other content")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}

func TestChunk_IsChild(t *testing.T) {
	assert.True(t, Chunk{Type: ChunkTypeChild}.IsChild())
	assert.False(t, Chunk{Type: ChunkTypeParent}.IsChild())
}
