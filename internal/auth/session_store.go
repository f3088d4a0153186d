package auth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	revokedKeyPrefix = "session:revoked:"
	oauthStatePrefix = "oauth:state:"

	// OAuthStateTTL bounds how long a Google login redirect stays valid.
	OAuthStateTTL = 10 * time.Minute
)

// SessionStore tracks revoked session tokens and pending OAuth state nonces.
type SessionStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	SaveOAuthState(ctx context.Context, state string) error
	ConsumeOAuthState(ctx context.Context, state string) (bool, error)
}

// RedisSessionStore is the Redis-backed SessionStore. Keys expire on their
// own, so a revoked token never outlives its session TTL.
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore wraps an existing client.
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

// Revoke denylists a token id until its natural expiry.
func (s *RedisSessionStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return errors.New("empty token id")
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return s.client.Set(ctx, revokedKeyPrefix+jti, "1", ttl).Err()
}

// IsRevoked reports whether a token id has been denylisted.
func (s *RedisSessionStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	n, err := s.client.Exists(ctx, revokedKeyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SaveOAuthState records a login redirect nonce.
func (s *RedisSessionStore) SaveOAuthState(ctx context.Context, state string) error {
	return s.client.Set(ctx, oauthStatePrefix+state, "1", OAuthStateTTL).Err()
}

// ConsumeOAuthState validates and deletes a nonce in one step.
func (s *RedisSessionStore) ConsumeOAuthState(ctx context.Context, state string) (bool, error) {
	n, err := s.client.Del(ctx, oauthStatePrefix+state).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
