package usage

import (
	"context"
	"sync"
	"time"
)

type memoryStore struct {
	mu   sync.Mutex
	data map[string]map[string]int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string]map[string]int)}
}

func (s *memoryStore) Get(ctx context.Context, userID string) (Usage, error) {
	if err := ctx.Err(); err != nil {
		return Usage{}, err
	}
	now := time.Now()
	s.mu.Lock()
	used := s.data[userID][periodKey(now)]
	s.mu.Unlock()

	u := defaultUsage()
	u.Used = used
	return u, nil
}

func (s *memoryStore) Consume(ctx context.Context, userID string, n int) (Usage, error) {
	if n <= 0 {
		return s.Get(ctx, userID)
	}
	if err := ctx.Err(); err != nil {
		return Usage{}, err
	}
	now := time.Now()
	period := periodKey(now)

	s.mu.Lock()
	defer s.mu.Unlock()
	u := defaultUsage()
	used := s.data[userID][period]
	if used+n > u.Limit {
		return Usage{}, ErrLimitReached
	}
	if s.data[userID] == nil {
		s.data[userID] = make(map[string]int)
	}
	s.data[userID][period] = used + n
	u.Used = used + n
	return u, nil
}

func (s *memoryStore) Reset(ctx context.Context, userID string) (Usage, error) {
	if err := ctx.Err(); err != nil {
		return Usage{}, err
	}
	now := time.Now()
	s.mu.Lock()
	if s.data[userID] == nil {
		s.data[userID] = make(map[string]int)
	}
	s.data[userID][periodKey(now)] = 0
	s.mu.Unlock()

	return defaultUsage(), nil
}
