package snapdb

import (
	"context"
	"slices"
	"sync"
)

// MemoryStorage keeps the snapshot in process memory. It backs databases
// opened with the InMemory path and is handy in tests.
type MemoryStorage struct {
	mu    sync.Mutex
	data  []byte
	saved bool
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (s *MemoryStorage) Load(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.saved {
		return nil, ErrNotExist
	}
	return slices.Clone(s.data), nil
}

func (s *MemoryStorage) Save(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = slices.Clone(data)
	s.saved = true
	return nil
}

func (s *MemoryStorage) Close() error {
	return nil
}

// Bytes returns the stored snapshot without copying, or nil if nothing has
// been saved. Mutating the result corrupts the storage; tests use this to
// do exactly that.
func (s *MemoryStorage) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.saved {
		return nil
	}
	return s.data
}
