package driven

import "context"

// TextExtractor produces raw text from a source file. Extraction of
// PDF/Word/Excel formats lives behind this port; the engine only sees
// text.
type TextExtractor interface {
	// Extract returns the raw text of the file at path.
	//
	// When the file cannot be meaningfully extracted (binary content,
	// unsupported format, extraction placeholder), implementations
	// return an error wrapping domain.ErrExtractionUnavailable so the
	// indexer can skip the file without treating genuine empty content
	// and extraction failure alike.
	Extract(ctx context.Context, path string) (string, error)
}
