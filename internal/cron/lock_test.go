package cron

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeLockClient struct {
	values map[string]string
}

func newFakeLockClient() *fakeLockClient {
	return &fakeLockClient{values: map[string]string{}}
}

func (f *fakeLockClient) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, exists := f.values[key]; exists {
		return false, nil
	}
	f.values[key] = value.(string)
	return true, nil
}

func (f *fakeLockClient) Get(ctx context.Context, key string) (string, error) {
	value, exists := f.values[key]
	if !exists {
		return "", redis.Nil
	}
	return value, nil
}

func (f *fakeLockClient) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func TestRedisLockSingleHolder(t *testing.T) {
	client := newFakeLockClient()

	first, err := NewRedisLock(client, "scan-lock", time.Minute)
	if err != nil {
		t.Fatalf("new lock: %v", err)
	}
	second, err := NewRedisLock(client, "scan-lock", time.Minute)
	if err != nil {
		t.Fatalf("new lock: %v", err)
	}

	won, err := first.Acquire(context.Background())
	if err != nil || !won {
		t.Fatalf("first acquire: won=%v err=%v", won, err)
	}
	won, err = second.Acquire(context.Background())
	if err != nil {
		t.Fatalf("second acquire: %v", err)
	}
	if won {
		t.Fatal("lease must have a single holder")
	}

	if err := first.Release(context.Background()); err != nil {
		t.Fatalf("release: %v", err)
	}
	won, err = second.Acquire(context.Background())
	if err != nil || !won {
		t.Fatalf("acquire after release: won=%v err=%v", won, err)
	}
}

func TestRedisLockReleaseSkipsForeignHolder(t *testing.T) {
	client := newFakeLockClient()

	lock, err := NewRedisLock(client, "scan-lock", time.Minute)
	if err != nil {
		t.Fatalf("new lock: %v", err)
	}
	if won, err := lock.Acquire(context.Background()); err != nil || !won {
		t.Fatalf("acquire: won=%v err=%v", won, err)
	}

	// The lease lapsed and another worker took it over.
	client.values["scan-lock"] = "someone-else"

	if err := lock.Release(context.Background()); err != nil {
		t.Fatalf("release: %v", err)
	}
	if client.values["scan-lock"] != "someone-else" {
		t.Fatal("release must not delete another worker's lease")
	}
}

func TestRedisLockReleaseAfterExpiry(t *testing.T) {
	client := newFakeLockClient()

	lock, err := NewRedisLock(client, "scan-lock", time.Minute)
	if err != nil {
		t.Fatalf("new lock: %v", err)
	}
	if won, err := lock.Acquire(context.Background()); err != nil || !won {
		t.Fatalf("acquire: won=%v err=%v", won, err)
	}

	delete(client.values, "scan-lock")

	if err := lock.Release(context.Background()); err != nil {
		t.Fatalf("release after expiry: %v", err)
	}
}
