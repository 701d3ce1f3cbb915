package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Pahari47/parkson-assignment/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// limiter counts hits per key in fixed windows.
type limiter interface {
	// hit records one request and reports whether it is within limit,
	// together with the end of the current window.
	hit(ctx context.Context, key string) (bool, time.Time, error)
}

// ── In-memory limiter ─────────────────────────────────────────────────────────

// windowEntry tracks request counts for one key within a window.
type windowEntry struct {
	count     int
	windowEnd time.Time
	mu        sync.Mutex
}

type memoryLimiter struct {
	limit   int
	window  time.Duration
	entries map[string]*windowEntry
	mu      sync.Mutex
}

const purgeInterval = 5 * time.Minute

// newMemoryLimiter starts a purge goroutine that lives until ctx is cancelled.
func newMemoryLimiter(ctx context.Context, limit int, window time.Duration) *memoryLimiter {
	l := &memoryLimiter{limit: limit, window: window, entries: make(map[string]*windowEntry)}
	go l.purgeLoop(ctx)
	return l
}

func (l *memoryLimiter) hit(_ context.Context, key string) (bool, time.Time, error) {
	l.mu.Lock()
	entry, exists := l.entries[key]
	if !exists {
		entry = &windowEntry{}
		l.entries[key] = entry
	}
	l.mu.Unlock()

	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := time.Now()
	if now.After(entry.windowEnd) {
		entry.count = 0
		entry.windowEnd = now.Add(l.window)
	}
	entry.count++
	return entry.count <= l.limit, entry.windowEnd, nil
}

// purgeLoop periodically drops expired entries so IPs that never return
// do not accumulate. It returns when ctx is done.
func (l *memoryLimiter) purgeLoop(ctx context.Context) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if purged, remaining := l.purge(now); purged > 0 {
				log.Debug().
					Int("entries_purged", purged).
					Int("entries_remaining", remaining).
					Msg("rate limiter map purged")
			}
		}
	}
}

func (l *memoryLimiter) purge(now time.Time) (int, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	purged := 0
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

// ── Redis limiter ─────────────────────────────────────────────────────────────

// redisLimiter shares fixed-window counters between server instances.
type redisLimiter struct {
	rdb    *redis.Client
	prefix string
	limit  int
	window time.Duration
}

func (l *redisLimiter) hit(ctx context.Context, key string) (bool, time.Time, error) {
	slot := time.Now().Truncate(l.window)
	redisKey := fmt.Sprintf("%s:%s:%d", l.prefix, key, slot.Unix())

	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, slot.Add(l.window), err
	}
	return incr.Val() <= int64(l.limit), slot.Add(l.window), nil
}

func newLimiter(ctx context.Context, rdb *redis.Client, prefix string, limit int, window time.Duration) limiter {
	if rdb == nil {
		return newMemoryLimiter(ctx, limit, window)
	}
	return &redisLimiter{rdb: rdb, prefix: prefix, limit: limit, window: window}
}

func limitBy(l limiter, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, windowEnd, err := l.hit(c.Request.Context(), c.ClientIP())
		if err != nil {
			// fail open when the counter store is down
			log.Warn().Err(err).Str("request_id", c.GetString(RequestIDKey)).Msg("rate limiter unavailable")
		}
		if !ok {
			retry := int(time.Until(windowEnd).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(retry))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(message))
			return
		}
		c.Next()
	}
}

// LoginRateLimiter limits authentication attempts to 20 per minute per IP.
// With a nil rdb the counters live in memory until ctx is cancelled.
func LoginRateLimiter(ctx context.Context, rdb *redis.Client) gin.HandlerFunc {
	return limitBy(newLimiter(ctx, rdb, "ratelimit:auth", 20, time.Minute),
		"Too many login attempts. Try again in a minute.")
}

// RateLimiter returns a general-purpose fixed-window limiter per client IP.
func RateLimiter(ctx context.Context, rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return limitBy(newLimiter(ctx, rdb, "ratelimit:api", limit, window),
		"Too many requests. Try again shortly.")
}
