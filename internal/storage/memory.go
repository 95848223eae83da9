// internal/storage/memory.go
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/propscout/dealengine/internal/storage/models"
)

// MemoryStorage keeps verdicts in process memory. Used when no postgres_url
// is configured and in tests.
type MemoryStorage struct {
	mu      sync.RWMutex
	records map[string]*models.VerdictRecord
	order   []string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{records: make(map[string]*models.VerdictRecord)}
}

func (m *MemoryStorage) SaveVerdict(_ context.Context, record *models.VerdictRecord) error {
	if record.ID == "" {
		return fmt.Errorf("verdict record requires an id")
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.records[record.ID]; !exists {
		m.order = append(m.order, record.ID)
	}
	m.records[record.ID] = record
	return nil
}

func (m *MemoryStorage) GetVerdict(_ context.Context, id string) (*models.VerdictRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.records[id]
	if !ok {
		return nil, fmt.Errorf("verdict %s not found", id)
	}
	return record, nil
}

func (m *MemoryStorage) ListVerdicts(_ context.Context, limit, offset int) ([]*models.VerdictRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, len(m.order))
	copy(ids, m.order)
	// Newest first, matching the postgres ordering.
	sort.SliceStable(ids, func(i, j int) bool {
		return m.records[ids[i]].CreatedAt.After(m.records[ids[j]].CreatedAt)
	})

	var out []*models.VerdictRecord
	for i := offset; i < len(ids) && len(out) < limit; i++ {
		out = append(out, m.records[ids[i]])
	}
	return out, nil
}

func (m *MemoryStorage) RunMigrations() error { return nil }
func (m *MemoryStorage) Close() error         { return nil }
