package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

type Result struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// window is a fixed window: [start, start+size).
func window(now time.Time, size time.Duration) (start time.Time, left time.Duration) {
	start = now.Truncate(size)
	return start, start.Add(size).Sub(now)
}

func decide(hits, max int64, left time.Duration) Result {
	res := Result{Allowed: hits <= max, Remaining: max - hits}
	if res.Remaining < 0 {
		res.Remaining = 0
	}
	if !res.Allowed {
		res.RetryAfter = left
	}
	return res
}

// MemoryLimiter counts hits per process. Good for a single replica.
type MemoryLimiter struct {
	mu     sync.Mutex
	cache  *gocache.Cache
	max    int64
	window time.Duration
	now    func() time.Time
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		cache:  gocache.New(window, time.Minute),
		max:    int64(max),
		window: window,
		now:    time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	start, left := window(l.now(), l.window)
	k := fmt.Sprintf("%s:%d", key, start.Unix())

	l.mu.Lock()
	defer l.mu.Unlock()

	hits, err := l.cache.IncrementInt64(k, 1)
	if err != nil {
		hits = 1
		l.cache.Set(k, hits, left)
	}
	return decide(hits, l.max, left), nil
}

// RedisLimiter shares the counter between replicas (INCR + EXPIRE per window).
type RedisLimiter struct {
	client redis.UniversalClient
	prefix string
	max    int64
	window time.Duration
}

func NewRedisLimiter(client redis.UniversalClient, prefix string, max int, window time.Duration) *RedisLimiter {
	if prefix == "" {
		prefix = "rl:"
	}
	return &RedisLimiter{client: client, prefix: prefix, max: int64(max), window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	start, left := window(time.Now().UTC(), l.window)
	redisKey := fmt.Sprintf("%s%s:%d", l.prefix, strings.ReplaceAll(key, " ", "_"), start.Unix())

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.ExpireNX(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, fmt.Errorf("rate limit: %w", err)
	}
	return decide(incr.Val(), l.max, left), nil
}
