package lock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryLocker implements Locker using in-memory locks.
// This is suitable for single-node deployments where distributed locking is
// not needed. The locks are NOT shared across process restarts or instances.
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[string]memoryLock
}

// memoryLock records the current holder's token and expiry.
type memoryLock struct {
	token     string
	expiresAt time.Time
}

// NewMemoryLocker creates a new in-memory locker.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{
		locks: make(map[string]memoryLock),
	}
}

// Acquire attempts to acquire a lock, returning the owner token on success.
func (m *MemoryLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if held, ok := m.locks[key]; ok && time.Now().Before(held.expiresAt) {
		return "", nil
	}

	token := uuid.NewString()
	m.locks[key] = memoryLock{token: token, expiresAt: time.Now().Add(ttl)}
	return token, nil
}

// AcquireWithRetry attempts to acquire a lock with retries.
func (m *MemoryLocker) AcquireWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (string, error) {
	for attempt := 0; ; attempt++ {
		token, err := m.Acquire(ctx, key, ttl)
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

// Release releases a lock if the token still owns it. A stale holder whose
// lock expired and was re-acquired by someone else gets false back and the
// current holder's lock is left intact.
func (m *MemoryLocker) Release(ctx context.Context, key string, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	held, ok := m.locks[key]
	if !ok || held.token != token {
		return false, nil
	}

	delete(m.locks, key)
	return time.Now().Before(held.expiresAt), nil
}

// Ensure MemoryLocker implements Locker.
var _ Locker = (*MemoryLocker)(nil)
