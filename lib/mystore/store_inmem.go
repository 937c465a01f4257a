package mystore

import (
	"context"
	"sync"
	"time"

	"github.com/floresvictoria/shopbackend/lib/mytime"
)

type inMemoryEntry struct {
	value     []byte
	expiresAt time.Time
}

type InMemoryStore struct {
	sync.Mutex
	nower mytime.Nower
	items map[string]inMemoryEntry
}

func NewInMemoryStore(nower mytime.Nower) (*InMemoryStore, func(), error) {
	return &InMemoryStore{
		nower: nower,
		items: map[string]inMemoryEntry{},
	}, func() {}, nil
}

func (s *InMemoryStore) Get(c context.Context, key string) ([]byte, bool, error) {
	s.Lock()
	defer s.Unlock()

	entry, exists := s.items[key]
	if !exists {
		return nil, false, nil
	}
	if !s.nower.Now().Before(entry.expiresAt) {
		delete(s.items, key)
		return nil, false, nil
	}

	return append([]byte(nil), entry.value...), true, nil
}

func (s *InMemoryStore) Put(c context.Context, key string, value []byte, ttl time.Duration) error {
	s.Lock()
	defer s.Unlock()

	s.items[key] = inMemoryEntry{
		value:     append([]byte(nil), value...),
		expiresAt: s.nower.Now().Add(ttl),
	}

	return nil
}

func (s *InMemoryStore) Ping(c context.Context) error {
	return nil
}

// TTL reports the remaining lifetime of key, or zero when absent.
func (s *InMemoryStore) TTL(key string) time.Duration {
	s.Lock()
	defer s.Unlock()

	entry, exists := s.items[key]
	if !exists {
		return 0
	}
	return entry.expiresAt.Sub(s.nower.Now())
}
