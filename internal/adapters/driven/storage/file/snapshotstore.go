// Package file provides a JSON file-backed snapshot store.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dealsense/ragengine/internal/core/domain"
	"github.com/dealsense/ragengine/internal/core/ports/driven"
	"github.com/dealsense/ragengine/internal/logger"
)

// Ensure SnapshotStore implements the interface.
var _ driven.SnapshotStore = (*SnapshotStore)(nil)

// maxNameLen bounds the sanitised file name derived from a collection
// id. Longer ids keep a hash suffix for uniqueness.
const maxNameLen = 64

// SnapshotStore persists one JSON snapshot file per collection.
type SnapshotStore struct {
	dir string
}

// NewSnapshotStore creates a store writing under dir, creating it if
// needed.
func NewSnapshotStore(dir string) (*SnapshotStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, ".ragengine", "snapshots")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating snapshot directory: %w", err)
	}
	return &SnapshotStore{dir: dir}, nil
}

// Save persists the snapshot atomically: write to a temp file in the
// same directory, then rename over the target.
func (s *SnapshotStore) Save(_ context.Context, snapshot *domain.IndexSnapshot) error {
	if snapshot == nil {
		return fmt.Errorf("%w: nil snapshot", domain.ErrInvalidInput)
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	target := s.pathFor(snapshot.CollectionID)
	tmp, err := os.CreateTemp(s.dir, ".snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// Load returns the stored snapshot for a collection, or nil when no
// usable snapshot exists. Parse failures and identity or version
// mismatches read as absent.
func (s *SnapshotStore) Load(_ context.Context, collectionID string) (*domain.IndexSnapshot, error) {
	data, err := os.ReadFile(s.pathFor(collectionID))
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Debug("Snapshot read for %q failed: %v", collectionID, err)
		}
		return nil, nil
	}

	var snapshot domain.IndexSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		logger.Warn("Snapshot for %q is corrupt: %v (treating as absent)", collectionID, err)
		return nil, nil
	}

	if snapshot.SchemaVersion != domain.CurrentSchemaVersion || snapshot.CollectionID != collectionID {
		logger.Debug("Snapshot for %q incompatible (version %d, collection %q)",
			collectionID, snapshot.SchemaVersion, snapshot.CollectionID)
		return nil, nil
	}
	if snapshot.FileRecords == nil {
		snapshot.FileRecords = make(map[string]domain.FileRecord)
	}
	return &snapshot, nil
}

// pathFor derives a safe on-disk path from an arbitrary collection id.
func (s *SnapshotStore) pathFor(collectionID string) string {
	return filepath.Join(s.dir, sanitizeName(collectionID)+".json")
}

// sanitizeName maps path-unsafe characters to underscores and bounds
// the length, keeping a fingerprint suffix so distinct long ids stay
// distinct.
func sanitizeName(id string) string {
	var b strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	name := b.String()
	if name == "" {
		name = "default"
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen-17] + "-" + domain.Fingerprint(id)[:16]
	}
	return name
}
