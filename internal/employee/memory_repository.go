package employee

import (
	"context"
	"sync"
)

// MemoryRepository is an in-process Backend. Its contents are lost on Close.
type MemoryRepository struct {
	mu      sync.RWMutex
	nextKey int64
	records map[int64]Employee
	order   []int64          // internal keys in insertion order
	byExtID map[string]int64 // unique index on ExternalID
}

// NewMemoryRepository creates an empty in-memory store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records: make(map[int64]Employee),
		byExtID: make(map[string]int64),
	}
}

// MemoryOpener returns an Opener that always yields repo.
func MemoryOpener(repo *MemoryRepository) Opener {
	return func(_ context.Context) (Backend, error) {
		return repo, nil
	}
}

// Close is a no-op; the data stays reachable through the same repository.
func (m *MemoryRepository) Close() error {
	return nil
}

// Insert adds e and stores the assigned internal key back into it.
func (m *MemoryRepository) Insert(_ context.Context, e *Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byExtID[e.ExternalID]; exists {
		return ErrDuplicateKey
	}

	m.nextKey++
	e.InternalKey = m.nextKey
	m.records[e.InternalKey] = *e
	m.order = append(m.order, e.InternalKey)
	m.byExtID[e.ExternalID] = e.InternalKey

	return nil
}

// FetchAll returns every record ordered by internal key.
func (m *MemoryRepository) FetchAll(_ context.Context) ([]Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	employees := make([]Employee, 0, len(m.order))
	for _, key := range m.order {
		employees = append(employees, m.records[key])
	}
	return employees, nil
}

// UpdateByExternalID merges fields into the matching record.
func (m *MemoryRepository) UpdateByExternalID(_ context.Context, externalID string, fields UpdateFields) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key, ok := m.byExtID[externalID]
	if !ok {
		return ErrNotFound
	}

	e := m.records[key]
	fields.apply(&e)
	m.records[key] = e

	return nil
}

// DeleteByExternalID removes the matching record.
func (m *MemoryRepository) DeleteByExternalID(_ context.Context, externalID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key, ok := m.byExtID[externalID]
	if !ok {
		return ErrNotFound
	}

	delete(m.records, key)
	delete(m.byExtID, externalID)
	for i, k := range m.order {
		if k == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}

	return nil
}

// ClearAll removes every record. Internal keys keep increasing afterwards.
func (m *MemoryRepository) ClearAll(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = make(map[int64]Employee)
	m.byExtID = make(map[string]int64)
	m.order = nil

	return nil
}
