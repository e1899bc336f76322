package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Slightly under the hourly cadence so a crashed worker's lock lapses
// before the next scheduled scan.
const defaultLockTTL = 55 * time.Minute

// Lock serializes scan cycles across worker replicas.
type Lock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// lockClient is the slice of the Redis API the lock needs.
type lockClient interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// RedisLock is a SETNX lease with a per-acquisition token. The token keeps a
// worker whose lease expired mid-scan from deleting a lock that a newer
// worker now holds.
type RedisLock struct {
	client lockClient
	key    string
	ttl    time.Duration
	token  string
}

// NewRedisLock constructs a Redis-backed scan lock.
func NewRedisLock(client lockClient, key string, ttl time.Duration) (*RedisLock, error) {
	if client == nil {
		return nil, errors.New("redis client required for lock")
	}
	if key == "" {
		return nil, errors.New("lock key is required")
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &RedisLock{client: client, key: key, ttl: ttl}, nil
}

// Acquire attempts to take the lease for the configured TTL.
func (l *RedisLock) Acquire(ctx context.Context) (bool, error) {
	token := uuid.NewString()
	won, err := l.client.SetNX(ctx, l.key, token, l.ttl)
	if err != nil {
		return false, fmt.Errorf("acquire scan lock: %w", err)
	}
	if won {
		l.token = token
	}
	return won, nil
}

// Release drops the lease, but only while our token is still the holder.
func (l *RedisLock) Release(ctx context.Context) error {
	if l.token == "" {
		return nil
	}
	holder, err := l.client.Get(ctx, l.key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			l.token = ""
			return nil
		}
		return fmt.Errorf("inspect scan lock: %w", err)
	}
	if holder != l.token {
		l.token = ""
		return nil
	}
	if err := l.client.Del(ctx, l.key); err != nil {
		return fmt.Errorf("release scan lock: %w", err)
	}
	l.token = ""
	return nil
}
