package slot

import (
	"context"
	"sync"
)

// Memory keeps the slot value in process memory. It is lost on restart.
type Memory struct {
	key string

	mu     sync.RWMutex
	value  []byte
	set    bool
	loads  int
	stores int
}

// NewMemory returns an empty Memory slot for key.
func NewMemory(key string) *Memory {
	return &Memory{key: key}
}

// Key returns the key the slot is bound to.
func (m *Memory) Key() string { return m.key }

// Load returns a copy of the stored value.
func (m *Memory) Load(context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	if !m.set {
		return nil, nil
	}
	return append([]byte(nil), m.value...), nil
}

// Store copies value into the slot.
func (m *Memory) Store(_ context.Context, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stores++
	m.value = append([]byte(nil), value...)
	m.set = true
	return nil
}

// Stores reports how many times Store was called.
func (m *Memory) Stores() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stores
}

// Loads reports how many times Load was called.
func (m *Memory) Loads() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loads
}
