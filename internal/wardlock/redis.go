package wardlock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"wardaudit/pkg/domain"
	dErrors "wardaudit/pkg/domain-errors"
)

// releaseScript deletes the key only if it still holds our token, so an
// expired lock taken over by another instance is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// extendScript pushes the expiry out only while the key still holds our token.
var extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// RedisLocker holds ward locks as SET NX PX keys. The holder renews the key
// every third of the TTL until it unlocks, so a slow approval keeps its
// exclusivity while a crashed holder still blocks others for at most one TTL.
type RedisLocker struct {
	client     redis.UniversalClient
	ttl        time.Duration
	retryDelay time.Duration
	prefix     string
	logger     *slog.Logger
}

type RedisOption func(*RedisLocker)

func WithRetryDelay(d time.Duration) RedisOption {
	return func(l *RedisLocker) {
		l.retryDelay = d
	}
}

func WithKeyPrefix(prefix string) RedisOption {
	return func(l *RedisLocker) {
		l.prefix = prefix
	}
}

func WithLogger(logger *slog.Logger) RedisOption {
	return func(l *RedisLocker) {
		l.logger = logger
	}
}

func NewRedisLocker(client redis.UniversalClient, ttl time.Duration, opts ...RedisOption) *RedisLocker {
	l := &RedisLocker{
		client:     client,
		ttl:        ttl,
		retryDelay: 50 * time.Millisecond,
		prefix:     "wardaudit:lock:ward:",
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Lock retries SET NX until it wins or ctx is done.
func (l *RedisLocker) Lock(ctx context.Context, ward domain.WardCode) (func(), error) {
	key := l.prefix + string(ward)
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, dErrors.Wrap(ctxErr, dErrors.CodeTimeout, "timed out waiting for ward lock")
			}
			return nil, dErrors.Wrap(fmt.Errorf("acquire ward lock: %w", err), dErrors.CodeUnavailable, "ward lock unavailable")
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "timed out waiting for ward lock")
		case <-time.After(l.retryDelay):
		}
	}

	stop := make(chan struct{})
	renewed := make(chan struct{})
	go l.renew(key, token, ward, stop, renewed)

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-renewed
			// Release with a fresh context: the caller's may already be cancelled.
			releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
				l.logger.Warn("failed to release ward lock", "ward_code", string(ward), "error", err)
			}
		})
	}, nil
}

// renew extends the key until stop closes or the token is no longer ours.
func (l *RedisLocker) renew(key, token string, ward domain.WardCode, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(max(l.ttl/3, time.Millisecond))
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
		ctx, cancel := context.WithTimeout(context.Background(), l.ttl)
		held, err := extendScript.Run(ctx, l.client, []string{key}, token, l.ttl.Milliseconds()).Int64()
		cancel()
		switch {
		case err != nil:
			l.logger.Warn("failed to extend ward lock", "ward_code", string(ward), "error", err)
		case held == 0:
			l.logger.Warn("ward lock lost before release", "ward_code", string(ward))
			return
		}
	}
}
