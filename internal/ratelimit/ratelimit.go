// Package ratelimit throttles requests per caller. Memory keeps a token
// bucket per key inside one process; Redis shares a fixed window across
// replicas.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Limiter reports whether one more request for key is allowed now.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Memory is a per-key token bucket limiter. Keys left idle long enough for
// their bucket to refill are dropped on a periodic sweep.
type Memory struct {
	limiters sync.Map // key -> *memoryEntry
	rps      rate.Limit
	burst    int
	idle     time.Duration
	now      func() time.Time

	mu        sync.Mutex
	lastSweep time.Time
}

type memoryEntry struct {
	lim  *rate.Limiter
	seen atomic.Int64 // unix nanos of the last request
}

// minIdle bounds how often the sweep runs for fast-refilling limits.
const minIdle = time.Minute

// NewMemory allows rps requests per second per key with the given burst.
// A non-positive burst falls back to 5.
func NewMemory(rps float64, burst int) *Memory {
	if burst <= 0 {
		burst = 5
	}
	m := &Memory{rps: rate.Limit(rps), burst: burst, now: time.Now}
	if rps > 0 {
		m.idle = max(time.Duration(float64(burst)/rps*float64(time.Second)), minIdle)
	}
	m.lastSweep = m.now()
	return m
}

// Allow implements Limiter.
func (m *Memory) Allow(_ context.Context, key string) (bool, error) {
	now := m.now()
	e := m.entry(key)
	e.seen.Store(now.UnixNano())
	ok := e.lim.AllowN(now, 1)
	m.sweep(now)
	return ok, nil
}

func (m *Memory) entry(key string) *memoryEntry {
	if v, ok := m.limiters.Load(key); ok {
		return v.(*memoryEntry)
	}
	actual, _ := m.limiters.LoadOrStore(key, &memoryEntry{lim: rate.NewLimiter(m.rps, m.burst)})
	return actual.(*memoryEntry)
}

// sweep drops entries idle for at least m.idle, at most once per m.idle.
// An entry idle that long has a full bucket, so dropping it changes nothing.
func (m *Memory) sweep(now time.Time) {
	if m.idle <= 0 {
		return
	}
	m.mu.Lock()
	if now.Sub(m.lastSweep) < m.idle {
		m.mu.Unlock()
		return
	}
	m.lastSweep = now
	m.mu.Unlock()

	cutoff := now.Add(-m.idle).UnixNano()
	m.limiters.Range(func(k, v any) bool {
		if e := v.(*memoryEntry); e.seen.Load() <= cutoff {
			m.limiters.CompareAndDelete(k, e)
		}
		return true
	})
}

// Redis counts requests per key in fixed windows. The window's key is
// created with its TTL and incremented in one transaction, so a counter
// never outlives its window.
type Redis struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
}

// NewRedis allows limit requests per key in each window.
func NewRedis(client *redis.Client, limit int, window time.Duration) *Redis {
	return &Redis{client: client, limit: limit, window: window, prefix: "atlas:ratelimit:"}
}

// Allow implements Limiter.
func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	k := r.prefix + key
	var count *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetNX(ctx, k, 0, r.window)
		count = pipe.Incr(ctx, k)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("ratelimit.Redis.Allow: %w", err)
	}
	return count.Val() <= int64(r.limit), nil
}

// Ping checks the Redis connection.
func Ping(ctx context.Context, client *redis.Client) error {
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ratelimit.Ping: %w", err)
	}
	return nil
}
