package lock

import (
	"context"
	"time"
)

// NoopLocker implements Locker without any actual locking.
// Useful in tests and in setups where the repository backend already
// serializes writes (for example SQLite with a single-writer pool).
type NoopLocker struct{}

// NewNoopLocker creates a new no-op locker.
func NewNoopLocker() *NoopLocker {
	return &NoopLocker{}
}

// noopToken is the constant owner token handed out by NoopLocker.
const noopToken = "noop"

// Acquire always succeeds.
func (n *NoopLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return noopToken, nil
}

// AcquireWithRetry always succeeds on the first attempt.
func (n *NoopLocker) AcquireWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (string, error) {
	return noopToken, nil
}

// Release always reports the lock as released.
func (n *NoopLocker) Release(ctx context.Context, key string, token string) (bool, error) {
	return true, nil
}

// Ensure NoopLocker implements Locker.
var _ Locker = (*NoopLocker)(nil)
