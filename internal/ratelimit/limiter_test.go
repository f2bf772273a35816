package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/prn-tf/alexander-iam/internal/cache/memory"
	"github.com/prn-tf/alexander-iam/internal/repository"
)

func TestLimiter_Allow(t *testing.T) {
	cache := memory.NewCache()
	defer cache.Stop()

	limiter := NewLimiter(cache, 3, time.Minute, zerolog.Nop())
	key := LoginKey("alice@example.com")

	for i := 0; i < 3; i++ {
		if !limiter.Allow(context.Background(), key) {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	if limiter.Allow(context.Background(), key) {
		t.Error("attempt beyond the limit should be rejected")
	}
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	cache := memory.NewCache()
	defer cache.Stop()

	limiter := NewLimiter(cache, 1, time.Minute, zerolog.Nop())

	if !limiter.Allow(context.Background(), LoginKey("alice@example.com")) {
		t.Fatal("first attempt for alice should be allowed")
	}
	if limiter.Allow(context.Background(), LoginKey("alice@example.com")) {
		t.Error("second attempt for alice should be rejected")
	}
	if !limiter.Allow(context.Background(), LoginKey("bob@example.com")) {
		t.Error("bob's first attempt should be allowed")
	}
}

func TestLimiter_Reset(t *testing.T) {
	cache := memory.NewCache()
	defer cache.Stop()

	limiter := NewLimiter(cache, 1, time.Minute, zerolog.Nop())
	key := LoginKey("alice@example.com")

	limiter.Allow(context.Background(), key)
	if limiter.Allow(context.Background(), key) {
		t.Fatal("second attempt should be rejected")
	}

	limiter.Reset(context.Background(), key)
	if !limiter.Allow(context.Background(), key) {
		t.Error("attempt after reset should be allowed")
	}
}

// brokenCache always fails, standing in for an unreachable Redis.
type brokenCache struct{}

func (brokenCache) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, repository.ErrCacheUnavailable
}
func (brokenCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return repository.ErrCacheUnavailable
}
func (brokenCache) SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	return false, repository.ErrCacheUnavailable
}
func (brokenCache) Delete(ctx context.Context, key string) error {
	return repository.ErrCacheUnavailable
}
func (brokenCache) Exists(ctx context.Context, key string) (bool, error) {
	return false, repository.ErrCacheUnavailable
}
func (brokenCache) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return repository.ErrCacheUnavailable
}
func (brokenCache) Increment(ctx context.Context, key string, delta int64) (int64, error) {
	return 0, repository.ErrCacheUnavailable
}

func TestLimiter_FailsOpen(t *testing.T) {
	limiter := NewLimiter(brokenCache{}, 1, time.Minute, zerolog.Nop())

	for i := 0; i < 5; i++ {
		if !limiter.Allow(context.Background(), LoginKey("alice@example.com")) {
			t.Fatal("limiter must fail open when the cache is unavailable")
		}
	}
}
