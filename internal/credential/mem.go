package credential

import (
	"sync"

	"splitspecs/internal/common"
)

// MemStore is an in-memory Store.
//
// Thread-safe: Uses RWMutex for concurrent access.
type MemStore struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{items: make(map[string]string)}
}

func (s *MemStore) GetItem(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.items[key]
	if !ok {
		return "", common.ErrNotFound
	}
	return v, nil
}

func (s *MemStore) SetItem(key, value string) error {
	if key == "" {
		return common.ErrInvalidKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = value
	return nil
}

func (s *MemStore) RemoveItem(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, key)
	return nil
}
