package store

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore implements KV and Queue in process memory.
type MemoryStore struct {
	mu     sync.Mutex
	data   map[string]memEntry
	hashes map[string]map[string][]byte
	queues map[string][][]byte
	wake   chan struct{}
	now    func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:   make(map[string]memEntry),
		hashes: make(map[string]map[string][]byte),
		queues: make(map[string][][]byte),
		wake:   make(chan struct{}),
		now:    time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		delete(s.data, key)
		return nil, ErrNotFound
	}
	return append([]byte(nil), e.value...), nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := memEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.data[key] = e
	return nil
}

func (s *MemoryStore) Del(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, k := range keys {
		delete(s.data, k)
		delete(s.hashes, k)
	}
	return nil
}

func (s *MemoryStore) HSet(_ context.Context, key, field string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hash(key)[field] = append([]byte(nil), value...)
	return nil
}

func (s *MemoryStore) HSetNX(_ context.Context, key, field string, value []byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.hash(key)
	if _, ok := h[field]; ok {
		return false, nil
	}
	h[field] = append([]byte(nil), value...)
	return true, nil
}

func (s *MemoryStore) HGetAll(_ context.Context, key string) (map[string][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string][]byte, len(s.hashes[key]))
	for f, v := range s.hashes[key] {
		out[f] = append([]byte(nil), v...)
	}
	return out, nil
}

// hash returns the field map of key, creating it. Callers hold s.mu.
func (s *MemoryStore) hash(key string) map[string][]byte {
	h, ok := s.hashes[key]
	if !ok {
		h = make(map[string][]byte)
		s.hashes[key] = h
	}
	return h
}

func (s *MemoryStore) Push(_ context.Context, queue string, values ...[]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, v := range values {
		s.queues[queue] = append(s.queues[queue], append([]byte(nil), v...))
	}
	if len(values) > 0 {
		close(s.wake)
		s.wake = make(chan struct{})
	}
	return nil
}

func (s *MemoryStore) Pop(ctx context.Context, queue string, timeout time.Duration) ([]byte, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		s.mu.Lock()
		if q := s.queues[queue]; len(q) > 0 {
			v := q[0]
			s.queues[queue] = q[1:]
			s.mu.Unlock()
			return v, nil
		}
		wake := s.wake
		s.mu.Unlock()

		select {
		case <-wake:
		case <-timer.C:
			return nil, ErrNotFound
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Len reports the number of payloads waiting in queue.
func (s *MemoryStore) Len(queue string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queues[queue])
}
