package tasks

import (
	"errors"
	"sync"
)

// ErrMockStorage is the error injected by failing mocks.
var ErrMockStorage = errors.New("mock storage error")

// MemoryKV implements storage.KV for testing.
type MemoryKV struct {
	mu        sync.Mutex
	Values    map[string]string
	SetCount  int
	FailOnSet bool
	FailOnGet bool
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{Values: make(map[string]string)}
}

func (m *MemoryKV) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailOnGet {
		return "", false, ErrMockStorage
	}
	v, ok := m.Values[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SetCount++
	if m.FailOnSet {
		return ErrMockStorage
	}
	m.Values[key] = value
	return nil
}

func (m *MemoryKV) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.Values, key)
	return nil
}

func (m *MemoryKV) Close() error {
	return nil
}
