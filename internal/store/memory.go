package store

import (
	"context"
	"sort"
	"sync"
)

type memoryKeyValue struct {
	mu      sync.RWMutex
	buckets map[string]map[string][]byte
}

// NewMemoryKeyValue returns an in-memory [KeyValue]. It is used when
// persistence is disabled and by tests.
func NewMemoryKeyValue() KeyValue {
	return &memoryKeyValue{buckets: make(map[string]map[string][]byte)}
}

func (m *memoryKeyValue) Get(_ context.Context, bucket, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.buckets[bucket][key]
	if !ok {
		return nil, ErrKeyNotFound
	}

	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (m *memoryKeyValue) Set(_ context.Context, bucket, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.buckets[bucket]
	if !ok {
		b = make(map[string][]byte)
		m.buckets[bucket] = b
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	b[key] = stored
	return nil
}

func (m *memoryKeyValue) Delete(_ context.Context, bucket, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.buckets[bucket], key)
	return nil
}

func (m *memoryKeyValue) Keys(_ context.Context, bucket string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.buckets[bucket]))
	for key := range m.buckets[bucket] {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}
