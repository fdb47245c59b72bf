package inventory

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is the reference Store implementation: a mutex-guarded map
// replacement with the same version-stamp contract as the gorm store. It
// backs the test suites and local tooling.
type MemoryStore struct {
	mu      sync.Mutex
	version int64
	keys    []Key

	// FailLoads forces LoadAll to fail, for outage tests.
	FailLoads error
	// FailSaves forces SaveAll to fail after the version check, for
	// persistence-failure tests.
	FailSaves error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Seed replaces the stored keys without touching the version stamp.
func (s *MemoryStore) Seed(keys []Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = cloneKeys(keys)
}

func (s *MemoryStore) LoadAll(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailLoads != nil {
		return nil, s.FailLoads
	}

	keys := cloneKeys(s.keys)
	sort.SliceStable(keys, func(i, j int) bool {
		if !keys[i].CreatedAt.Equal(keys[j].CreatedAt) {
			return keys[i].CreatedAt.Before(keys[j].CreatedAt)
		}
		return keys[i].ID < keys[j].ID
	})

	return &Snapshot{Version: s.version, Keys: keys}, nil
}

func (s *MemoryStore) SaveAll(ctx context.Context, keys []Key, version int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if version != s.version {
		return ErrVersionConflict
	}
	if s.FailSaves != nil {
		return s.FailSaves
	}

	s.version++
	s.keys = cloneKeys(keys)
	return nil
}

func cloneKeys(keys []Key) []Key {
	out := make([]Key, len(keys))
	for i, k := range keys {
		out[i] = k
		if k.UTR != nil {
			utr := *k.UTR
			out[i].UTR = &utr
		}
		if k.ClaimedAt != nil {
			at := *k.ClaimedAt
			out[i].ClaimedAt = &at
		}
	}
	return out
}
