package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Redis key prefix for sessions
	sessionKeyPrefix = "session:"
	// Default TTL for session keys (24 hours)
	defaultTTL = 24 * time.Hour
)

// RedisStore persists sessions in Redis as JSON values with a TTL that
// refreshes on every read and write.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ SessionStore = &RedisStore{}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

func (s *RedisStore) Save(ctx context.Context, session *Session) error {
	val, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(session.ID), val, s.ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	key := s.key(id)
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, err
	}

	var session Session
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return nil, err
	}

	// Refresh TTL on read; a failed refresh is not fatal
	_ = s.client.Expire(ctx, key, s.ttl).Err()

	return &session, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}

func (s *RedisStore) key(id string) string {
	return sessionKeyPrefix + id
}
