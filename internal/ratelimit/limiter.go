// Package ratelimit provides a fixed-window counter limiter backed by the
// shared cache. It throttles login attempts per email so credential
// stuffing cannot hammer the password hasher.
package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/prn-tf/alexander-iam/internal/repository"
)

// Limiter counts events per key within a fixed window.
type Limiter struct {
	cache  repository.Cache
	limit  int64
	window time.Duration
	logger zerolog.Logger
}

// NewLimiter creates a Limiter allowing limit events per window.
func NewLimiter(cache repository.Cache, limit int64, window time.Duration, logger zerolog.Logger) *Limiter {
	return &Limiter{
		cache:  cache,
		limit:  limit,
		window: window,
		logger: logger.With().Str("component", "ratelimit").Logger(),
	}
}

// Allow records one event for key and reports whether it stays within the
// limit. Cache failures fail open: a broken Redis must not lock everyone
// out of login.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	count, err := l.cache.Increment(ctx, key, 1)
	if err != nil {
		if !errors.Is(err, repository.ErrCacheUnavailable) {
			l.logger.Warn().Err(err).Str("key", key).Msg("rate limit counter failed")
		}
		return true
	}

	if count == 1 {
		// First event in this window, start the clock.
		if err := l.cache.Expire(ctx, key, l.window); err != nil {
			l.logger.Warn().Err(err).Str("key", key).Msg("failed to set rate limit window")
		}
	}

	return count <= l.limit
}

// Reset clears the counter for key, used after a successful login.
func (l *Limiter) Reset(ctx context.Context, key string) {
	if err := l.cache.Delete(ctx, key); err != nil {
		l.logger.Debug().Err(err).Str("key", key).Msg("failed to reset rate limit counter")
	}
}

// LoginKey returns the counter key for login attempts against one email.
func LoginKey(email string) string {
	return "ratelimit:login:" + email
}
