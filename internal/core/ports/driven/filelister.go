package driven

import (
	"context"
	"time"
)

// FileLister enumerates the current source files of a collection.
// The indexer diffs successive listings to detect new, changed and
// deleted files.
type FileLister interface {
	// List returns the files currently present, including a content
	// hash for change detection.
	List(ctx context.Context) ([]FileInfo, error)
}

// FileInfo describes one listed source file.
type FileInfo struct {
	// Path is the file's path or external id. It doubles as the
	// FileRecord key.
	Path string

	// Name is the human-readable file name.
	Name string

	// ModTime is the file's last modification time.
	ModTime time.Time

	// ContentHash fingerprints the raw file bytes.
	ContentHash string
}
