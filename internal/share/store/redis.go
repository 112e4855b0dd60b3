package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"civicledger/internal/share"
	"civicledger/pkg/platform/sentinel"
)

const shareKeyPrefix = "share:sid:"

// RedisStore persists share sessions with a native TTL, so expired sessions
// disappear without any eviction pass. The service still checks ExpiresAt
// itself; the TTL is a floor, not the source of truth.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Save(ctx context.Context, session share.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal share session: %w", err)
	}
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("share session already expired")
	}
	// SETNX so a short-id collision surfaces instead of overwriting
	ok, err := s.client.SetNX(ctx, shareKeyPrefix+session.ShortID, raw, ttl).Result()
	if err != nil {
		return fmt.Errorf("save share session: %w", err)
	}
	if !ok {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *RedisStore) Find(ctx context.Context, shortID string) (share.Session, error) {
	raw, err := s.client.Get(ctx, shareKeyPrefix+shortID).Bytes()
	if errors.Is(err, redis.Nil) {
		return share.Session{}, sentinel.ErrNotFound
	}
	if err != nil {
		return share.Session{}, fmt.Errorf("find share session: %w", err)
	}
	var session share.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return share.Session{}, fmt.Errorf("unmarshal share session: %w", err)
	}
	return session, nil
}

func (s *RedisStore) Delete(ctx context.Context, shortID string) error {
	return s.client.Del(ctx, shareKeyPrefix+shortID).Err()
}
