// internal/cache/mock.go
package cache

import (
	"context"
	"sync"
)

// MockCache is an in-memory VerdictCache for tests.
type MockCache struct {
	mu    sync.RWMutex
	store map[string][]byte

	Gets int
	Sets int
	Hits int
}

func NewMockCache() *MockCache {
	return &MockCache{store: make(map[string][]byte)}
}

func (m *MockCache) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Gets++
	val, ok := m.store[key]
	if ok {
		m.Hits++
	}
	return val, ok
}

func (m *MockCache) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sets++
	m.store[key] = append([]byte(nil), value...)
	return nil
}
