// Package sqlite provides a SQLite-backed snapshot store.
//
// The persistence contract is a single versioned document per
// collection, so the snapshot is stored as one JSON payload row; SQLite
// contributes durable atomic replacement and a single-file database the
// host application can back up.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/dealsense/ragengine/internal/core/domain"
	"github.com/dealsense/ragengine/internal/core/ports/driven"
	"github.com/dealsense/ragengine/internal/logger"
)

// Ensure SnapshotStore implements the interface.
var _ driven.SnapshotStore = (*SnapshotStore)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	collection_id  TEXT PRIMARY KEY,
	schema_version INTEGER NOT NULL,
	last_updated   TEXT NOT NULL,
	payload        BLOB NOT NULL
);`

// SnapshotStore persists snapshots in a SQLite database.
type SnapshotStore struct {
	db   *sql.DB
	path string
}

// NewSnapshotStore opens (or creates) the database at the given data
// directory. If dataDir is empty, defaults to ~/.ragengine/data.
func NewSnapshotStore(dataDir string) (*SnapshotStore, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".ragengine", "data")
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "snapshots.db")

	// WAL mode for better concurrency between save and load.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SnapshotStore{db: db, path: dbPath}, nil
}

// Save upserts the snapshot row for its collection.
func (s *SnapshotStore) Save(ctx context.Context, snapshot *domain.IndexSnapshot) error {
	if snapshot == nil {
		return fmt.Errorf("%w: nil snapshot", domain.ErrInvalidInput)
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (collection_id, schema_version, last_updated, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(collection_id) DO UPDATE SET
			schema_version = excluded.schema_version,
			last_updated   = excluded.last_updated,
			payload        = excluded.payload`,
		snapshot.CollectionID,
		snapshot.SchemaVersion,
		snapshot.LastUpdated.UTC().Format("2006-01-02T15:04:05.999999999Z07:00"),
		payload,
	)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Load returns the stored snapshot for a collection, or nil when no
// usable snapshot exists.
func (s *SnapshotStore) Load(ctx context.Context, collectionID string) (*domain.IndexSnapshot, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM snapshots WHERE collection_id = ?`, collectionID,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		logger.Warn("Snapshot query for %q failed: %v (treating as absent)", collectionID, err)
		return nil, nil
	}

	var snapshot domain.IndexSnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		logger.Warn("Snapshot for %q is corrupt: %v (treating as absent)", collectionID, err)
		return nil, nil
	}

	if snapshot.SchemaVersion != domain.CurrentSchemaVersion || snapshot.CollectionID != collectionID {
		logger.Debug("Snapshot for %q incompatible (version %d)", collectionID, snapshot.SchemaVersion)
		return nil, nil
	}
	if snapshot.FileRecords == nil {
		snapshot.FileRecords = make(map[string]domain.FileRecord)
	}
	return &snapshot, nil
}

// Close releases the database handle.
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}
