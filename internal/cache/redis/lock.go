package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/prn-tf/alexander-iam/internal/repository"
)

// releaseScript deletes a lock key only if it still holds the caller's token.
// Running it as a Lua script keeps the check-and-delete atomic.
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

// Lock implements repository.DistributedLock using Redis SET NX. Every
// Acquire stores a fresh token, so a holder whose lock already expired and
// was taken over by another acquirer cannot release the new holder's lock.
type Lock struct {
	client *redis.Client
}

// NewLock creates a Redis distributed lock sharing the cache's client.
func NewLock(cache *Cache) *Lock {
	return &Lock{
		client: cache.client,
	}
}

// Acquire attempts to acquire a lock, returning the owner token on success.
func (l *Lock) Acquire(ctx context.Context, key string, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return "", fmt.Errorf("%w: %v", repository.ErrCacheUnavailable, err)
	}
	if !ok {
		return "", nil
	}
	return token, nil
}

// AcquireWithRetry attempts to acquire a lock with retries.
func (l *Lock) AcquireWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (string, error) {
	for attempt := 0; ; attempt++ {
		token, err := l.Acquire(ctx, key, ttl)
		if err != nil {
			return "", err
		}
		if token != "" {
			return token, nil
		}
		if attempt >= maxRetries {
			return "", nil
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(retryDelay):
		}
	}
}

// Release releases a lock if the token still owns it.
func (l *Lock) Release(ctx context.Context, key string, token string) (bool, error) {
	n, err := l.client.Eval(ctx, releaseScript, []string{key}, token).Int64()
	if err != nil {
		return false, fmt.Errorf("%w: %v", repository.ErrCacheUnavailable, err)
	}
	return n == 1, nil
}

// Ensure Lock implements repository.DistributedLock.
var _ repository.DistributedLock = (*Lock)(nil)
