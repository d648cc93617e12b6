package infra

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisPriceCache stores JSON read models in Redis. Every method is best
// effort: misses, decode errors and outages are logged and swallowed.
//
// Each key has a companion generation counter bumped by Invalidate. Readers
// take the generation before loading from the database and Fill only stores
// the value if the counter has not moved, so a slow reader cannot put back a
// card that a concurrent write already invalidated.
type RedisPriceCache struct {
	rdb     *redis.Client
	ttl     time.Duration
	genTTL  time.Duration
	breaker *CircuitBreaker
}

const minCacheTTL = time.Minute

// fillIfCurrent sets KEYS[1] only while KEYS[2] still holds ARGV[1].
var fillIfCurrent = redis.NewScript(`
local cur = redis.call('GET', KEYS[2]) or '0'
if cur ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

func NewRedisPriceCache(rdb *redis.Client, ttl time.Duration, breaker *CircuitBreaker) *RedisPriceCache {
	if breaker == nil {
		breaker = NewCircuitBreaker(DefaultRedisCBConfig())
	}
	if ttl < minCacheTTL {
		ttl = minCacheTTL
	}
	// generations must outlive the values they guard
	return &RedisPriceCache{rdb: rdb, ttl: ttl, genTTL: 2 * ttl, breaker: breaker}
}

func generationKey(key string) string { return key + ":gen" }

func (c *RedisPriceCache) Get(ctx context.Context, key string, dest interface{}) bool {
	var raw []byte
	err := c.breaker.Execute(func() error {
		b, err := c.rdb.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		raw = b
		return err
	})
	if err != nil {
		c.warn(err, key, "price cache read failed")
		return false
	}
	if raw == nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.warn(err, key, "price cache entry undecodable")
		return false
	}
	return true
}

// Generation returns the current invalidation counter of key, or -1 when
// Redis cannot be read. Fill ignores negative generations.
func (c *RedisPriceCache) Generation(ctx context.Context, key string) int64 {
	gen := int64(-1)
	err := c.breaker.Execute(func() error {
		n, err := c.rdb.Get(ctx, generationKey(key)).Int64()
		if errors.Is(err, redis.Nil) {
			gen = 0
			return nil
		}
		if err != nil {
			return err
		}
		gen = n
		return nil
	})
	if err != nil {
		c.warn(err, key, "price cache generation read failed")
		return -1
	}
	return gen
}

// Fill stores value under key unless key was invalidated after gen was read.
func (c *RedisPriceCache) Fill(ctx context.Context, key string, gen int64, value interface{}) {
	if gen < 0 {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		c.warn(err, key, "price cache encode failed")
		return
	}
	if err := c.breaker.Execute(func() error {
		return fillIfCurrent.Run(ctx, c.rdb,
			[]string{key, generationKey(key)},
			strconv.FormatInt(gen, 10), raw, c.ttl.Milliseconds(),
		).Err()
	}); err != nil {
		c.warn(err, key, "price cache write failed")
	}
}

// Invalidate drops the values and bumps their generations in one round trip.
func (c *RedisPriceCache) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.breaker.Execute(func() error {
		_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, keys...)
			for _, k := range keys {
				pipe.Incr(ctx, generationKey(k))
				pipe.Expire(ctx, generationKey(k), c.genTTL)
			}
			return nil
		})
		return err
	}); err != nil {
		c.warn(err, keys[0], "price cache invalidation failed")
	}
}

func (c *RedisPriceCache) warn(err error, key, msg string) {
	if errors.Is(err, ErrCircuitOpen) {
		return
	}
	log.Warn().Err(err).Str("key", key).Msg(msg)
}
