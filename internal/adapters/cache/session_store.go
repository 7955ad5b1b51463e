package cache

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// RedisSessionStore implements users.SessionStore on top of Redis. A
// session is a single key per user; invalidation is a delete.
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore creates a new Redis session store
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

// SessionKey returns the Redis key holding a user's session
func SessionKey(userID uuid.UUID) string {
	return sessionKeyPrefix + userID.String()
}

// Invalidate removes a user's session so their next request re-authenticates
func (s *RedisSessionStore) Invalidate(ctx context.Context, userID uuid.UUID) error {
	if err := s.client.Del(ctx, SessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
