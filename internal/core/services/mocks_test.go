package services

import (
	"context"
	"time"

	"github.com/dealsense/ragengine/internal/core/domain"
	"github.com/dealsense/ragengine/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbedder implements driven.EmbeddingService for testing.
type mockEmbedder struct {
	embedding []float32
	// vecFor, when set, derives the vector from the input text instead
	// of returning the fixed embedding.
	vecFor func(text string) []float32
	// embedErrFor, when set, decides per text whether Embed fails.
	embedErrFor func(text string) error
	embedErr    error
	batchErr    error
	model       string
	lastText    string
	batchCalls  int
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.lastText = text
	if m.embedErrFor != nil {
		if err := m.embedErrFor(text); err != nil {
			return nil, err
		}
	}
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if m.vecFor != nil {
		return m.vecFor(text), nil
	}
	return m.embedding, nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.batchCalls++
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	result := make([][]float32, len(texts))
	for i, t := range texts {
		if m.vecFor != nil {
			result[i] = m.vecFor(t)
		} else {
			result[i] = m.embedding
		}
	}
	return result, nil
}

func (m *mockEmbedder) ModelName() string {
	if m.model != "" {
		return m.model
	}
	return "mock-embed"
}

func (m *mockEmbedder) Close() error { return nil }

// mockLister implements driven.FileLister for testing.
type mockLister struct {
	files   []driven.FileInfo
	listErr error
}

func (m *mockLister) List(_ context.Context) ([]driven.FileInfo, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.files, nil
}

// mockExtractor implements driven.TextExtractor for testing.
type mockExtractor struct {
	texts map[string]string
	errs  map[string]error
	calls map[string]int
}

func newMockExtractor() *mockExtractor {
	return &mockExtractor{
		texts: make(map[string]string),
		errs:  make(map[string]error),
		calls: make(map[string]int),
	}
}

func (m *mockExtractor) Extract(_ context.Context, path string) (string, error) {
	m.calls[path]++
	if err, ok := m.errs[path]; ok {
		return "", err
	}
	return m.texts[path], nil
}

// mockSnapshotStore implements driven.SnapshotStore for testing.
type mockSnapshotStore struct {
	saved   *domain.IndexSnapshot
	loaded  *domain.IndexSnapshot
	saveErr error
	loadErr error
}

func (m *mockSnapshotStore) Save(_ context.Context, snapshot *domain.IndexSnapshot) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = snapshot
	return nil
}

func (m *mockSnapshotStore) Load(_ context.Context, _ string) (*domain.IndexSnapshot, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.loaded, nil
}

// mockCompletion implements driven.CompletionService for testing.
type mockCompletion struct {
	passage     string
	completeErr error
	calls       int
}

func (m *mockCompletion) Complete(_ context.Context, _, _ string) (string, error) {
	m.calls++
	if m.completeErr != nil {
		return "", m.completeErr
	}
	return m.passage, nil
}

func (m *mockCompletion) ModelName() string { return "mock-complete" }

func (m *mockCompletion) Close() error { return nil }

// mockReranker implements driven.RerankService for testing.
type mockReranker struct {
	results   []driven.RerankResult
	rerankErr error
	gotQuery  string
	gotDocs   []string
}

func (m *mockReranker) Rerank(_ context.Context, query string, documents []string, _ int) ([]driven.RerankResult, error) {
	m.gotQuery = query
	m.gotDocs = documents
	if m.rerankErr != nil {
		return nil, m.rerankErr
	}
	return m.results, nil
}

func (m *mockReranker) Close() error { return nil }

// mockScopeStore implements driven.ScopeStore with injectable errors.
type mockScopeStore struct {
	docs       map[string]struct{}
	byDoc      map[string][]string
	docsErr    error
	reverseErr error
}

func (m *mockScopeStore) DocumentsForScope(_ context.Context, _ string) (map[string]struct{}, error) {
	if m.docsErr != nil {
		return nil, m.docsErr
	}
	return m.docs, nil
}

func (m *mockScopeStore) ScopesForDocument(_ context.Context, path string) ([]string, error) {
	if m.reverseErr != nil {
		return nil, m.reverseErr
	}
	return m.byDoc[path], nil
}

// --- Shared helpers ---

func fileInfo(path, content string) (driven.FileInfo, string) {
	return driven.FileInfo{
		Path:        path,
		Name:        path,
		ModTime:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		ContentHash: domain.Fingerprint(content),
	}, content
}
