package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenCache tracks issued session tokens so sign-out can revoke them.
type TokenCache struct {
	client *redis.Client
}

func NewTokenCache(client *redis.Client) *TokenCache {
	return &TokenCache{client: client}
}

func (c *TokenCache) Cache(ctx context.Context, userID, token string, ttl time.Duration) error {
	return c.client.Set(ctx, "token:"+userID, token, ttl).Err()
}

func (c *TokenCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, "token:"+userID).Err()
}
