package infra

import (
	"context"
	"errors"
	"time"

	"hppkit/internal/metrics"

	"github.com/bsm/redislock"
	"github.com/rs/zerolog/log"
)

// RedisChainLocker serialises price-chain mutations across API instances.
// It is best effort: when the lock cannot be obtained in time, or Redis is
// down, the caller proceeds without it and relies on the database unique
// constraint on (entity_id, level_order).
type RedisChainLocker struct {
	client  *redislock.Client
	ttl     time.Duration
	wait    time.Duration
	breaker *CircuitBreaker
}

// NewRedisChainLocker holds locks for ttl and waits up to ttl to obtain one.
func NewRedisChainLocker(client *redislock.Client, ttl time.Duration, breaker *CircuitBreaker) *RedisChainLocker {
	if breaker == nil {
		breaker = NewCircuitBreaker(DefaultRedisCBConfig())
	}
	return &RedisChainLocker{client: client, ttl: ttl, wait: ttl, breaker: breaker}
}

// Lock obtains key and returns its release func. The returned func is never nil.
func (l *RedisChainLocker) Lock(ctx context.Context, key string) func() {
	noop := func() {}
	if l == nil || l.client == nil {
		return noop
	}

	obtainCtx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	var lock *redislock.Lock
	err := l.breaker.Execute(func() error {
		var err error
		lock, err = l.client.Obtain(obtainCtx, key, l.ttl, &redislock.Options{
			RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(50*time.Millisecond), int(l.wait/(50*time.Millisecond))),
		})
		if errors.Is(err, redislock.ErrNotObtained) {
			// contention is not a Redis failure
			return nil
		}
		return err
	})
	if err != nil || lock == nil {
		metrics.ChainLockFallbacks.Inc()
		ev := log.Warn().Str("key", key)
		if err != nil && !errors.Is(err, ErrCircuitOpen) {
			ev = ev.Err(err)
		}
		ev.Msg("could not obtain chain lock; proceeding without lock")
		return noop
	}

	return func() {
		// release must outlive a cancelled request context
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := lock.Release(releaseCtx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			log.Warn().Err(err).Str("key", key).Msg("failed to release chain lock")
		}
	}
}
