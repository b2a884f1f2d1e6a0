package store

import (
	"context"
	"slices"
	"sync"
)

// Memory keeps values in process memory.
type Memory struct {
	mu   sync.Mutex
	data map[string][]uint32
}

func NewMemory() *Memory {
	return &Memory{data: map[string][]uint32{}}
}

func (m *Memory) Load(ctx context.Context, key string) ([]uint32, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	values, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(values), nil
}

func (m *Memory) Save(ctx context.Context, key string, values []uint32) error {
	if err := checkKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = slices.Clone(values)
	return nil
}

func (m *Memory) Close() error {
	return nil
}
