package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "session:revoked:"

// Sessions tracks revoked session credentials in Redis until their natural
// expiry, so logout takes effect before the JWT itself runs out.
type Sessions struct {
	client *redis.Client
}

// NewSessions creates a session revocation store.
func NewSessions(client *redis.Client) *Sessions {
	return &Sessions{client: client}
}

// Revoke marks the token ID as revoked for the remaining token lifetime.
func (s *Sessions) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // already expired
	}
	return s.client.Set(ctx, revokedKeyPrefix+tokenID, 1, ttl).Err()
}

// IsRevoked reports whether the token ID has been revoked.
func (s *Sessions) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
