package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"hppkit/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// rateEntry tracks request counts per caller within a fixed window.
type rateEntry struct {
	count     int
	windowEnd time.Time
	mu        sync.Mutex
}

// RateLimiter is a fixed-window limiter keyed by authenticated user, falling
// back to client IP before authentication has run.
type RateLimiter struct {
	limit   int
	window  time.Duration
	entries map[string]*rateEntry
	mu      sync.Mutex
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{limit: limit, window: window, entries: make(map[string]*rateEntry)}
}

// Handler returns the gin middleware. A non-positive limit disables limiting.
func (l *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.limit <= 0 {
			c.Next()
			return
		}

		key := "ip:" + c.ClientIP()
		if v, ok := c.Get(ClaimsKey); ok {
			if claims, ok := v.(*JWTClaims); ok {
				key = "user:" + claims.UserID
			}
		}

		l.mu.Lock()
		entry, exists := l.entries[key]
		if !exists {
			entry = &rateEntry{}
			l.entries[key] = entry
		}
		l.mu.Unlock()

		entry.mu.Lock()
		now := time.Now()
		if now.After(entry.windowEnd) {
			entry.count = 0
			entry.windowEnd = now.Add(l.window)
		}
		entry.count++
		over := entry.count > l.limit
		retryAfter := entry.windowEnd.Sub(now)
		entry.mu.Unlock()

		if over {
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Too many requests, try again shortly"))
			return
		}
		c.Next()
	}
}

// Purge drops expired windows and reports how many were removed and kept.
func (l *RateLimiter) Purge(now time.Time) (purged, remaining int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, entry := range l.entries {
		entry.mu.Lock()
		if now.After(entry.windowEnd) {
			delete(l.entries, key)
			purged++
		}
		entry.mu.Unlock()
	}
	return purged, len(l.entries)
}

// StartPurge removes expired entries every interval until stop is closed.
func (l *RateLimiter) StartPurge(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case now := <-ticker.C:
				if n, left := l.Purge(now); n > 0 {
					log.Debug().Int("purged", n).Int("remaining", left).Msg("rate limiter entries purged")
				}
			}
		}
	}()
}
