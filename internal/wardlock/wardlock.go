// Package wardlock provides per-ward mutual exclusion shared by refreshes and
// approvals. The sharded locker serves a single process; the Redis locker
// extends the guarantee across instances.
package wardlock

import (
	"context"
	"sync"

	"wardaudit/pkg/domain"
	dErrors "wardaudit/pkg/domain-errors"
)

// Locker serializes work on one ward. The returned unlock must be called
// exactly once.
type Locker interface {
	Lock(ctx context.Context, ward domain.WardCode) (unlock func(), err error)
}

const numShards = 128

// Sharded maps wards onto a fixed set of context-aware mutexes using FNV-1a,
// so unrelated wards rarely contend.
type Sharded struct {
	shards [numShards]chan struct{}
	once   sync.Once
}

func NewSharded() *Sharded {
	s := &Sharded{}
	s.init()
	return s
}

func (s *Sharded) init() {
	s.once.Do(func() {
		for i := range s.shards {
			s.shards[i] = make(chan struct{}, 1)
		}
	})
}

func (s *Sharded) Lock(ctx context.Context, ward domain.WardCode) (func(), error) {
	s.init()
	if err := ctx.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "ward lock aborted: context cancelled")
	}
	shard := s.shards[hashString(string(ward))%numShards]
	select {
	case shard <- struct{}{}:
	case <-ctx.Done():
		return nil, dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "timed out waiting for ward lock")
	}
	var released sync.Once
	return func() {
		released.Do(func() { <-shard })
	}, nil
}

// hashString is 32-bit FNV-1a.
func hashString(s string) uint32 {
	const (
		fnvOffset = 2166136261
		fnvPrime  = 16777619
	)
	h := uint32(fnvOffset)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= fnvPrime
	}
	return h
}
