package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RefreshCookie is the name of the HTTP-only cookie carrying the refresh token.
const RefreshCookie = "refreshToken"

// RefreshRegistry tracks live refresh tokens in Redis, keyed by jti. A token
// absent from the registry (rotated away, revoked, or expired) is rejected.
type RefreshRegistry struct {
	rdb *redis.Client
}

func NewRefreshRegistry(rdb *redis.Client) *RefreshRegistry {
	return &RefreshRegistry{rdb: rdb}
}

// Save registers a refresh token for its whole lifetime.
func (r *RefreshRegistry) Save(ctx context.Context, jti, userID string, ttl time.Duration) error {
	return r.rdb.Set(ctx, "refresh:"+jti, userID, ttl).Err()
}

// UserID returns the user a live refresh token belongs to, or "" if the
// token is not registered.
func (r *RefreshRegistry) UserID(ctx context.Context, jti string) (string, error) {
	val, err := r.rdb.Get(ctx, "refresh:"+jti).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

// Revoke removes a refresh token from the registry.
func (r *RefreshRegistry) Revoke(ctx context.Context, jti string) error {
	return r.rdb.Del(ctx, "refresh:"+jti).Err()
}
