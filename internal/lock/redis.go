package lock

import (
	"context"
	"time"

	"github.com/prn-tf/alexander-iam/internal/repository"
)

// RedisLocker implements Locker by delegating to a repository.DistributedLock
// implementation (Redis-backed in multi-node deployments).
type RedisLocker struct {
	distributedLock repository.DistributedLock
}

// NewRedisLocker creates a new RedisLocker wrapping a DistributedLock implementation.
func NewRedisLocker(dl repository.DistributedLock) *RedisLocker {
	return &RedisLocker{
		distributedLock: dl,
	}
}

// Acquire attempts to acquire a lock.
func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return l.distributedLock.Acquire(ctx, key, ttl)
}

// AcquireWithRetry attempts to acquire a lock with retries.
func (l *RedisLocker) AcquireWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (string, error) {
	return l.distributedLock.AcquireWithRetry(ctx, key, ttl, maxRetries, retryDelay)
}

// Release releases a lock if the token still owns it.
func (l *RedisLocker) Release(ctx context.Context, key string, token string) (bool, error) {
	return l.distributedLock.Release(ctx, key, token)
}

// Ensure RedisLocker implements Locker.
var _ Locker = (*RedisLocker)(nil)
