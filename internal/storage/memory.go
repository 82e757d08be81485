package storage

import (
	"context"
	"sync"
)

// memoryAdapter keeps values in a map. Contents are lost on restart.
type memoryAdapter struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryAdapter creates an in-process adapter.
func NewMemoryAdapter() Adapter {
	return &memoryAdapter{
		values: make(map[string]string),
	}
}

func (a *memoryAdapter) Get(_ context.Context, key string) (string, bool, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	value, ok := a.values[key]
	return value, ok, nil
}

func (a *memoryAdapter) Set(_ context.Context, key, value string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.values[key] = value
	return nil
}

func (a *memoryAdapter) Remove(_ context.Context, key string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	delete(a.values, key)
	return nil
}
