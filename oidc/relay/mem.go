package relay

import (
	"context"
	"sync"
)

// NewMemStore creates a Store over process memory, the analogue of
// session-scoped storage: values live until the process exits and are
// never written to disk. It is also the natural backend for tests.
func NewMemStore(clientID string) *Store {
	return NewStore(clientID, &memKV{values: map[string]string{}})
}

type memKV struct {
	mu     sync.Mutex
	values map[string]string
}

func (m *memKV) set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *memKV) get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

func (m *memKV) delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
