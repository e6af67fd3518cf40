package kv

import (
	"context"
	"sync"
)

type memoryEntry struct {
	data    []byte
	version int64
}

// MemoryBackend keeps blobs in process memory. Used for local runs and tests.
type MemoryBackend struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

// NewMemoryBackend returns an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{entries: map[string]memoryEntry{}}
}

func (m *MemoryBackend) Get(ctx context.Context, key string) (*Blob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, nil
	}
	data := make([]byte, len(e.data))
	copy(data, e.data)
	return &Blob{Data: data, Version: e.version}, nil
}

func (m *MemoryBackend) Put(ctx context.Context, key string, data []byte, expectedVersion int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur := m.entries[key].version
	if expectedVersion != AnyVersion && cur != expectedVersion {
		return 0, ErrVersionConflict
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	m.entries[key] = memoryEntry{data: stored, version: cur + 1}
	return cur + 1, nil
}
