package store

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps sessions in process memory with expiry. Suitable for
// single-instance deployments and tests.
type MemoryStore struct {
	cache *cache.Cache
}

var _ SessionStore = &MemoryStore{}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = 1 * time.Hour
	}
	// Purge expired sessions every 10 minutes
	return &MemoryStore{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (s *MemoryStore) Save(ctx context.Context, session *Session) error {
	s.cache.Set(session.ID, session, cache.DefaultExpiration)
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	if x, found := s.cache.Get(id); found {
		return x.(*Session), nil
	}
	return nil, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.cache.Delete(id)
	return nil
}
