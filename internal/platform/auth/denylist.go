package auth

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Denylist records revoked tokens until their natural expiry. It is an
// opt-in extension: without it, logout only clears the cookie and the token
// stays valid server-side until it expires.
type Denylist interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type RedisDenylist struct {
	client *redis.Client
}

func NewRedisDenylist(url string) (*RedisDenylist, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &RedisDenylist{client: redis.NewClient(opts)}, nil
}

func (d *RedisDenylist) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, denyKey(token), "1", ttl).Err()
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := d.client.Exists(ctx, denyKey(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (d *RedisDenylist) Close() error { return d.client.Close() }

// Tokens are hashed before use as keys so the raw credential never lands in
// the store.
func denyKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return fmt.Sprintf("denylist:%x", sum)
}
