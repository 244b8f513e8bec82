package driven

import (
	"context"

	"github.com/dealsense/ragengine/internal/core/domain"
)

// SnapshotStore persists the index snapshot between runs.
// Any durable key-value or document store satisfies the contract.
type SnapshotStore interface {
	// Save persists the snapshot, replacing any prior snapshot for the
	// same collection. The write must be atomic: a crash mid-save must
	// not leave a corrupt snapshot behind.
	Save(ctx context.Context, snapshot *domain.IndexSnapshot) error

	// Load returns the snapshot for a collection, or nil when no
	// usable snapshot exists. Version mismatch, identity mismatch and
	// parse failure all read as absent - never as an error.
	Load(ctx context.Context, collectionID string) (*domain.IndexSnapshot, error)
}
