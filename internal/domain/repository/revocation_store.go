package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore is the denylist of tokens that must be treated as invalid
// despite carrying a valid signature. Entries live exactly as long as the
// token itself would have.
type RevocationStore interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

const revokedTokenKeyPrefix = "token:"

type redisRevocationStore struct {
	rdb *redis.Client
}

func NewRedisRevocationStore(rdb *redis.Client) RevocationStore {
	return &redisRevocationStore{rdb: rdb}
}

func (s *redisRevocationStore) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Token already expired naturally; nothing to deny.
		return nil
	}
	key := revokedTokenKeyPrefix + token
	if err := s.rdb.Set(ctx, key, "revoked", ttl).Err(); err != nil {
		return fmt.Errorf("redisRevocationStore.Revoke: %w", err)
	}
	return nil
}

func (s *redisRevocationStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := s.rdb.Exists(ctx, revokedTokenKeyPrefix+token).Result()
	if err != nil {
		return false, fmt.Errorf("redisRevocationStore.IsRevoked: %w", err)
	}
	return n > 0, nil
}
