// Package filesystem provides a file lister and change watcher for a
// local folder collection.
package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dealsense/ragengine/internal/core/domain"
	"github.com/dealsense/ragengine/internal/core/ports/driven"
)

// Ensure Lister implements the interface.
var _ driven.FileLister = (*Lister)(nil)

// DefaultExtensions are the file types listed when none are configured.
var DefaultExtensions = []string{".txt", ".md", ".pdf", ".docx", ".xlsx", ".csv"}

// Lister enumerates files under a root directory.
type Lister struct {
	root       string
	extensions map[string]struct{}
}

// Option configures the lister.
type Option func(*Lister)

// WithExtensions restricts listing to the given extensions (dot
// included, case-insensitive).
func WithExtensions(exts ...string) Option {
	return func(l *Lister) {
		if len(exts) == 0 {
			return
		}
		l.extensions = make(map[string]struct{}, len(exts))
		for _, e := range exts {
			l.extensions[strings.ToLower(e)] = struct{}{}
		}
	}
}

// NewLister creates a lister rooted at the given directory.
func NewLister(root string, opts ...Option) *Lister {
	l := &Lister{root: root}
	WithExtensions(DefaultExtensions...)(l)
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// List walks the root and returns every matching file with its content
// hash. Hidden directories (dot-prefixed) are skipped.
func (l *Lister) List(ctx context.Context) ([]driven.FileInfo, error) {
	var files []driven.FileInfo

	err := filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			if path != l.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if _, ok := l.extensions[ext]; !ok {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		files = append(files, driven.FileInfo{
			Path:        path,
			Name:        d.Name(),
			ModTime:     info.ModTime(),
			ContentHash: domain.Fingerprint(string(data)),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", l.root, err)
	}
	return files, nil
}
