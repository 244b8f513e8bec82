// Package memory provides an in-memory scope store mapping scope
// identifiers (deals, tenants, workspaces) to document paths.
package memory

import (
	"context"
	"sync"

	"github.com/dealsense/ragengine/internal/core/ports/driven"
)

var _ driven.ScopeStore = (*ScopeStore)(nil)

// ScopeStore holds scope-to-document associations in memory. Safe for
// concurrent use.
type ScopeStore struct {
	mu        sync.RWMutex
	byScope   map[string]map[string]struct{}
	byDocPath map[string]map[string]struct{}
}

// NewScopeStore creates an empty store.
func NewScopeStore() *ScopeStore {
	return &ScopeStore{
		byScope:   make(map[string]map[string]struct{}),
		byDocPath: make(map[string]map[string]struct{}),
	}
}

// Associate links a document path to a scope. Idempotent.
func (s *ScopeStore) Associate(scopeID, docPath string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.byScope[scopeID] == nil {
		s.byScope[scopeID] = make(map[string]struct{})
	}
	s.byScope[scopeID][docPath] = struct{}{}

	if s.byDocPath[docPath] == nil {
		s.byDocPath[docPath] = make(map[string]struct{})
	}
	s.byDocPath[docPath][scopeID] = struct{}{}
}

// Dissociate removes a document path from a scope.
func (s *ScopeStore) Dissociate(scopeID, docPath string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.byScope[scopeID], docPath)
	delete(s.byDocPath[docPath], scopeID)
}

// DocumentsForScope returns the set of document paths in a scope. The
// returned map is a copy and safe to retain.
func (s *ScopeStore) DocumentsForScope(ctx context.Context, scopeID string) (map[string]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make(map[string]struct{}, len(s.byScope[scopeID]))
	for path := range s.byScope[scopeID] {
		docs[path] = struct{}{}
	}
	return docs, nil
}

// ScopesForDocument returns the scopes a document path belongs to.
func (s *ScopeStore) ScopesForDocument(ctx context.Context, docPath string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	scopes := make([]string, 0, len(s.byDocPath[docPath]))
	for id := range s.byDocPath[docPath] {
		scopes = append(scopes, id)
	}
	return scopes, nil
}
