package kvstore

import (
	"context"
	"sync"

	"github.com/sangkips/scanpay/internal/domain/repository"
)

type memoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryStore returns a process-local store, used for tests and demos
func NewMemoryStore() repository.KeyValueStore {
	return &memoryStore{data: make(map[string][]byte)}
}

func (s *memoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return cloneBytes(v), true, nil
}

func (s *memoryStore) Update(ctx context.Context, key string, fn repository.UpdateFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.data[key]
	next, err := fn(cloneBytes(current), ok)
	if err != nil {
		return err
	}
	s.data[key] = cloneBytes(next)
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *memoryStore) Close() error {
	return nil
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
