package driven

import "context"

// ScopeStore resolves deal/tenant associations for documents.
// This is an optional service - when nil, scoped search behaves like
// unscoped search.
type ScopeStore interface {
	// DocumentsForScope returns the set of document paths associated
	// with the given scope.
	DocumentsForScope(ctx context.Context, scopeID string) (map[string]struct{}, error)

	// ScopesForDocument returns the scopes a document path belongs to.
	ScopesForDocument(ctx context.Context, path string) ([]string, error)
}
