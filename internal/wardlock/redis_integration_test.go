//go:build integration

package wardlock_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"wardaudit/internal/wardlock"
	dErrors "wardaudit/pkg/domain-errors"
	"wardaudit/pkg/testutil/containers"
)

type RedisLockerSuite struct {
	suite.Suite
	redis *containers.RedisContainer
}

func TestRedisLockerSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisLockerSuite))
}

func (s *RedisLockerSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
}

func (s *RedisLockerSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

// Two lockers model two service instances sharing one Redis.
func (s *RedisLockerSuite) TestExclusiveAcrossInstances() {
	a := wardlock.NewRedisLocker(s.redis.Client, 5*time.Second, wardlock.WithRetryDelay(5*time.Millisecond))
	b := wardlock.NewRedisLocker(s.redis.Client, 5*time.Second, wardlock.WithRetryDelay(5*time.Millisecond))
	ctx := context.Background()

	var inside, overlaps atomic.Int32
	var wg sync.WaitGroup
	for i := range 10 {
		l := a
		if i%2 == 1 {
			l = b
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(ctx, "79700001")
			if err != nil {
				return
			}
			defer unlock()
			if inside.Add(1) > 1 {
				overlaps.Add(1)
			}
			time.Sleep(5 * time.Millisecond)
			inside.Add(-1)
		}()
	}
	wg.Wait()
	s.Zero(overlaps.Load())
}

func (s *RedisLockerSuite) TestTimesOutWhileHeld() {
	l := wardlock.NewRedisLocker(s.redis.Client, 5*time.Second, wardlock.WithRetryDelay(5*time.Millisecond))
	unlock, err := l.Lock(context.Background(), "79700001")
	s.Require().NoError(err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "79700001")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
}

func (s *RedisLockerSuite) TestLostLockIsNotReleasedByOldHolder() {
	ctx := context.Background()
	l := wardlock.NewRedisLocker(s.redis.Client, time.Second, wardlock.WithRetryDelay(5*time.Millisecond))
	key := "wardaudit:lock:ward:79700001"

	staleUnlock, err := l.Lock(ctx, "79700001")
	s.Require().NoError(err)
	// The key vanishing models an expiry while the holder was partitioned.
	s.Require().NoError(s.redis.Client.Del(ctx, key).Err())

	freshUnlock, err := l.Lock(ctx, "79700001")
	s.Require().NoError(err)
	staleUnlock()

	exists, err := s.redis.Client.Exists(ctx, key).Result()
	s.Require().NoError(err)
	s.Equal(int64(1), exists)
	freshUnlock()
}

// A holder working longer than the TTL keeps other instances out.
func (s *RedisLockerSuite) TestHeldPastTTLStaysExclusive() {
	ctx := context.Background()
	holder := wardlock.NewRedisLocker(s.redis.Client, 90*time.Millisecond, wardlock.WithRetryDelay(5*time.Millisecond))
	other := wardlock.NewRedisLocker(s.redis.Client, 90*time.Millisecond, wardlock.WithRetryDelay(5*time.Millisecond))

	unlock, err := holder.Lock(ctx, "79700001")
	s.Require().NoError(err)

	waitCtx, cancel := context.WithTimeout(ctx, 400*time.Millisecond)
	defer cancel()
	_, err = other.Lock(waitCtx, "79700001")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeTimeout))

	unlock()
	unlock()
	again, err := other.Lock(ctx, "79700001")
	s.Require().NoError(err)
	again()
}
