package kv

import (
	"github.com/patrickmn/go-cache"

	"github.com/doeshing/rxdbg/internal/ports"
)

// Memory keeps values in process memory. Values never expire.
type Memory struct {
	items *cache.Cache
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{items: cache.New(cache.NoExpiration, 0)}
}

// Get implements ports.KeyValueStore.
func (m *Memory) Get(key string) (string, bool, error) {
	v, ok := m.items.Get(key)
	if !ok {
		return "", false, nil
	}
	s, ok := v.(string)
	return s, ok, nil
}

// Set implements ports.KeyValueStore.
func (m *Memory) Set(key, value string) error {
	m.items.Set(key, value, cache.NoExpiration)
	return nil
}

var _ ports.KeyValueStore = (*Memory)(nil)
