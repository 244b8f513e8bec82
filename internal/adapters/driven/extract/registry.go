// Package extract hosts the text extraction adapters and dispatches
// between them by file extension.
package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dealsense/ragengine/internal/core/domain"
	"github.com/dealsense/ragengine/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.TextExtractor = (*Registry)(nil)

// Registry routes extraction to a format-specific extractor based on
// the file extension, falling back to a default for everything else.
type Registry struct {
	byExt    map[string]driven.TextExtractor
	fallback driven.TextExtractor
}

// NewRegistry creates a registry with the given fallback extractor.
// A nil fallback means unregistered extensions read as
// extraction-unavailable.
func NewRegistry(fallback driven.TextExtractor) *Registry {
	return &Registry{
		byExt:    make(map[string]driven.TextExtractor),
		fallback: fallback,
	}
}

// Register binds an extension (dot included, case-insensitive) to an
// extractor, replacing any previous binding.
func (r *Registry) Register(ext string, extractor driven.TextExtractor) {
	r.byExt[strings.ToLower(ext)] = extractor
}

// Extract dispatches to the extractor registered for the file's
// extension.
func (r *Registry) Extract(ctx context.Context, path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if e, ok := r.byExt[ext]; ok {
		return e.Extract(ctx, path)
	}
	if r.fallback != nil {
		return r.fallback.Extract(ctx, path)
	}
	return "", fmt.Errorf("%w: no extractor for %s", domain.ErrExtractionUnavailable, ext)
}
