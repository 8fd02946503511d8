//go:build integration

package containers

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"wardaudit/internal/platform/config"
	redisclient "wardaudit/internal/platform/redis"
)

const redisImage = "redis:7-alpine"

// RedisContainer is a Redis server shared by the lock suites.
type RedisContainer struct {
	Container testcontainers.Container
	URL       string
	Client    *goredis.Client
}

// NewRedisContainer starts Redis and connects through the same client
// constructor the service uses. Ryuk reaps the container after the run.
func NewRedisContainer(t *testing.T) *RedisContainer {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, redisImage)
	if err != nil {
		t.Fatalf("start redis container: %v", err)
	}
	url, err := container.ConnectionString(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("redis connection string: %v", err)
	}
	client, err := redisclient.New(ctx, config.RedisConfig{URL: url, DialTimeout: 10 * time.Second})
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("connect redis: %v", err)
	}
	return &RedisContainer{Container: container, URL: url, Client: client.Client}
}

// FlushAll drops every key so each test starts with no held locks.
func (r *RedisContainer) FlushAll(ctx context.Context) error {
	return r.Client.FlushAll(ctx).Err()
}
