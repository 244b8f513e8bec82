// Package plaintext provides a text extraction adapter for local
// plain-text files. Rich formats (PDF, Word, Excel) live behind the
// same port in the host application; this adapter makes the engine
// exercisable end-to-end on plain files.
package plaintext

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/dealsense/ragengine/internal/core/domain"
	"github.com/dealsense/ragengine/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// maxFileSize guards against accidentally slurping huge binaries.
const maxFileSize = 32 << 20 // 32 MiB

// Extractor reads local plain-text files.
type Extractor struct{}

// New creates a plain-text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract returns the text content of the file at path. Binary or
// non-UTF-8 content reads as extraction-unavailable so the indexer can
// skip the file, distinct from a genuinely empty file.
func (e *Extractor) Extract(_ context.Context, path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > maxFileSize {
		return "", fmt.Errorf("%w: %s exceeds size limit", domain.ErrExtractionUnavailable, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	if bytes.ContainsRune(data, 0) || !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s is not text", domain.ErrExtractionUnavailable, path)
	}

	// Normalise line endings so chunk boundaries match across platforms.
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	return text, nil
}
