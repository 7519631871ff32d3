// Package ratelimit throttles login attempts per client key.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

const idleBucketTTL = 10 * time.Minute

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// Memory is a per-process token bucket keyed by client.
type Memory struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	limit     rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

func NewMemory(perMinute, burst int) *Memory {
	if perMinute <= 0 {
		perMinute = 1
	}
	if burst <= 0 {
		burst = 1
	}

	return &Memory{
		buckets: make(map[string]*bucket),
		limit:   rate.Every(time.Minute / time.Duration(perMinute)),
		burst:   burst,
		now:     time.Now,
	}
}

func (m *Memory) Allow(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if now.Sub(m.lastSweep) > idleBucketTTL {
		for k, b := range m.buckets {
			if now.Sub(b.seen) > idleBucketTTL {
				delete(m.buckets, k)
			}
		}
		m.lastSweep = now
	}

	b, ok := m.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(m.limit, m.burst)}
		m.buckets[key] = b
	}
	b.seen = now

	return b.lim.AllowN(now, 1), nil
}

// Redis is a fixed-window counter shared by every replica.
type Redis struct {
	client *redis.Client
	limit  int64
	window time.Duration
	prefix string
}

func NewRedis(client *redis.Client, limit int, window time.Duration) *Redis {
	return &Redis{
		client: client,
		limit:  int64(limit),
		window: window,
		prefix: "bancas:login:",
	}
}

// Allow creates the window key with its expiry and counts the attempt in one
// MULTI/EXEC, so a counter can never outlive its window.
func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	k := r.prefix + key

	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetArgs(ctx, k, 0, redis.SetArgs{Mode: "NX", TTL: r.window})
		incr = pipe.Incr(ctx, k)
		return nil
	})
	// SET NX answers nil when the window is already open.
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, fmt.Errorf("r.client.TxPipelined -> %w", err)
	}

	count, err := incr.Result()
	if err != nil {
		return false, fmt.Errorf("incr.Result -> %w", err)
	}

	return count <= r.limit, nil
}

// NewRedisClient parses url and checks the server answers.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL -> %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	if err = client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("client.Ping -> %w", err)
	}

	return client, nil
}
