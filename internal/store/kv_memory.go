package store

import "sync"

// MemoryKV is a map-backed substrate used by tests. Update stages writes
// against a copy and swaps it in only when fn succeeds.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

func (m *MemoryKV) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryKV) Put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryKV) Update(fn func(tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	staged := make(map[string][]byte, len(m.data))
	for k, v := range m.data {
		staged[k] = v
	}
	if err := fn(&memoryTx{data: staged}); err != nil {
		return err
	}
	m.data = staged
	return nil
}

func (m *MemoryKV) Close() error { return nil }

type memoryTx struct {
	data map[string][]byte
}

func (t *memoryTx) Get(key string) ([]byte, bool, error) {
	v, ok := t.data[key]
	return v, ok, nil
}

func (t *memoryTx) Put(key string, value []byte) error {
	t.data[key] = value
	return nil
}
