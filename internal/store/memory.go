package store

import "sync"

// MemoryStore is an in-process KV, used by tests and by the CLI dry runs.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
	// FailWrites makes Apply fail, to exercise save-failure paths.
	FailWrites error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Apply(changes ...Change) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return m.FailWrites
	}
	for _, c := range changes {
		if c.Delete {
			delete(m.values, c.Key)
			continue
		}
		m.values[c.Key] = c.Value
	}
	return nil
}

// Has reports whether a key is currently stored.
func (m *MemoryStore) Has(key string) bool {
	_, ok, _ := m.Get(key)
	return ok
}
