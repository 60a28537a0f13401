// Package memory provides an in-memory backing store used by tests
// and as a zero-dependency fallback.
package memory

import (
	"context"
	"sync"
)

// BackingStore keeps blobs in a map. Safe for concurrent use.
type BackingStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// New returns an empty in-memory backing store.
func New() *BackingStore {
	return &BackingStore{blobs: make(map[string][]byte)}
}

func (b *BackingStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	blob, ok := b.blobs[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(blob))
	copy(out, blob)
	return out, true, nil
}

func (b *BackingStore) Set(_ context.Context, key string, blob []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	stored := make([]byte, len(blob))
	copy(stored, blob)
	b.blobs[key] = stored
	return nil
}

func (b *BackingStore) RemoveMany(_ context.Context, keys []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, k := range keys {
		delete(b.blobs, k)
	}
	return nil
}
