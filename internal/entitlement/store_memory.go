package entitlement

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu   sync.Mutex
	data map[string]int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string]int)}
}

func (s *memoryStore) Ensure(ctx context.Context, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	used, ok := s.data[userID]
	if !ok {
		s.data[userID] = 0
		return 0, nil
	}
	return used, nil
}

func (s *memoryStore) Increment(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[userID]++
	return nil
}

var _ Store = (*memoryStore)(nil)
