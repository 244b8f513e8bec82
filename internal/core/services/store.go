package services

import (
	"sync"

	"github.com/dealsense/ragengine/internal/core/domain"
)

// StoreManager owns the active in-memory snapshot for each collection.
// The indexer swaps a new snapshot in only after a full merge succeeds,
// so concurrent searches always observe a complete snapshot - either
// the prior one or the new one, never a partial merge.
type StoreManager struct {
	mu     sync.RWMutex
	active map[string]*domain.IndexSnapshot
}

// NewStoreManager creates an empty store manager.
func NewStoreManager() *StoreManager {
	return &StoreManager{
		active: make(map[string]*domain.IndexSnapshot),
	}
}

// Get returns the active snapshot for a collection, or nil.
func (m *StoreManager) Get(collectionID string) *domain.IndexSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active[collectionID]
}

// Swap replaces the active snapshot for the snapshot's collection.
func (m *StoreManager) Swap(snapshot *domain.IndexSnapshot) {
	if snapshot == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active[snapshot.CollectionID] = snapshot
}

// Drop removes the active snapshot for a collection.
func (m *StoreManager) Drop(collectionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.active, collectionID)
}
