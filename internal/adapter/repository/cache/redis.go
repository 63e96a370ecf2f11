package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Connect opens and pings a redis client shared by the caches.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, err
	}
	return client, nil
}
