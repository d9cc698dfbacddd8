// Package cache provides a two-tier page cache: an in-process L1 map and an
// optional Redis L2 shared between processes.
package cache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/CK3thou/youtube-transcripts/internal/logger"
	"github.com/CK3thou/youtube-transcripts/internal/metrics"
)

// DefaultTTL is how long a fetched page stays cached.
const DefaultTTL = 15 * time.Minute

const defaultMaxEntries = 512

type entry struct {
	body      string
	expiresAt time.Time
}

// Tiered is safe for concurrent use. The zero value is not usable; call New.
type Tiered struct {
	mu         sync.Mutex
	l1         map[string]entry
	rdb        *redis.Client
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// Options configures New.
type Options struct {
	TTL        time.Duration
	MaxEntries int
	// RedisURL enables the L2 tier, e.g. redis://localhost:6379/0.
	RedisURL string
}

// New builds a cache. An invalid or unreachable Redis only disables L2.
func New(ctx context.Context, opts Options) *Tiered {
	log := logger.WithComponent(logger.ComponentClient)
	c := &Tiered{
		l1:         make(map[string]entry),
		ttl:        opts.TTL,
		maxEntries: opts.MaxEntries,
		now:        time.Now,
	}
	if c.ttl <= 0 {
		c.ttl = DefaultTTL
	}
	if c.maxEntries <= 0 {
		c.maxEntries = defaultMaxEntries
	}

	if opts.RedisURL != "" {
		ropts, err := redis.ParseURL(opts.RedisURL)
		if err != nil {
			log.Warn("cache: invalid redis URL, L2 disabled", map[string]any{"error": err.Error()})
			return c
		}
		rdb := redis.NewClient(ropts)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Warn("cache: redis unreachable, L2 disabled", map[string]any{"error": err.Error()})
			_ = rdb.Close()
			return c
		}
		c.rdb = rdb
		log.Info("cache: L2 redis connected", map[string]any{"addr": ropts.Addr})
	}
	return c
}

// NewWithRedis wraps an existing Redis client as L2.
func NewWithRedis(rdb *redis.Client, ttl time.Duration) *Tiered {
	c := New(context.Background(), Options{TTL: ttl})
	c.rdb = rdb
	return c
}

// Key derives the cache key for a URL.
func Key(url string) string {
	sum := sha256.Sum256([]byte(url))
	return fmt.Sprintf("ytt:page:%x", sum[:12])
}

// Get looks the URL up in L1, then L2. An L2 hit is promoted to L1.
func (c *Tiered) Get(ctx context.Context, url string) (string, bool) {
	key := Key(url)

	c.mu.Lock()
	e, ok := c.l1[key]
	if ok && c.now().Before(e.expiresAt) {
		c.mu.Unlock()
		metrics.IncrCacheHits()
		return e.body, true
	}
	if ok {
		delete(c.l1, key)
	}
	c.mu.Unlock()

	if c.rdb != nil {
		body, err := c.rdb.Get(ctx, key).Result()
		if err == nil && body != "" {
			c.store(key, body)
			metrics.IncrCacheHits()
			return body, true
		}
	}

	metrics.IncrCacheMisses()
	return "", false
}

// Set stores body in both tiers. Redis errors are logged and ignored.
func (c *Tiered) Set(ctx context.Context, url, body string) {
	key := Key(url)
	c.store(key, body)
	if c.rdb != nil {
		if err := c.rdb.Set(ctx, key, body, c.ttl).Err(); err != nil {
			logger.WithComponent(logger.ComponentClient).Debug("cache: L2 set failed", map[string]any{"error": err.Error()})
		}
	}
}

// Len reports the number of L1 entries.
func (c *Tiered) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.l1)
}

// Close releases the Redis connection, if any.
func (c *Tiered) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func (c *Tiered) store(key, body string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.l1) >= c.maxEntries {
		c.evictLocked()
	}
	c.l1[key] = entry{body: body, expiresAt: c.now().Add(c.ttl)}
}

// evictLocked drops expired entries, then the entry closest to expiry if still full.
func (c *Tiered) evictLocked() {
	now := c.now()
	var oldestKey string
	var oldest time.Time
	for k, e := range c.l1 {
		if !now.Before(e.expiresAt) {
			delete(c.l1, k)
			continue
		}
		if oldestKey == "" || e.expiresAt.Before(oldest) {
			oldestKey, oldest = k, e.expiresAt
		}
	}
	if len(c.l1) >= c.maxEntries && oldestKey != "" {
		delete(c.l1, oldestKey)
	}
}
