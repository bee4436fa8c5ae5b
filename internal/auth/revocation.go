// AngelaMos | 2026
// revocation.go

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const revocationKeyPrefix = "blacklist:"

// RevocationStore keeps logged-out token ids in Redis until they would
// have expired anyway.
type RevocationStore struct {
	redis *redis.Client
}

func NewRevocationStore(redisClient *redis.Client) *RevocationStore {
	return &RevocationStore{redis: redisClient}
}

func (s *RevocationStore) Revoke(
	ctx context.Context,
	tokenID string,
	expiresAt time.Time,
) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	if err := s.redis.Set(ctx, revocationKeyPrefix+tokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	return nil
}

func (s *RevocationStore) IsRevoked(
	ctx context.Context,
	tokenID string,
) (bool, error) {
	exists, err := s.redis.Exists(ctx, revocationKeyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("check revocation: %w", err)
	}

	return exists > 0, nil
}

var _ RevocationChecker = (*RevocationStore)(nil)
