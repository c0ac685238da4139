// Package collector keeps the ordered, de-duplicated set of detail URLs a run visits.
package collector

import (
	"context"
	"sync"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

// URLCollector is an insertion-ordered URL set. The in-memory set is the
// session's source of truth; when a Redis client is configured every new URL
// is mirrored into a Redis set so other tooling can watch the run's progress.
type URLCollector struct {
	redisClient *redis.Client
	memoryCache map[string]struct{}
	ordered     []string
	mu          sync.RWMutex
	redisKey    string
}

// NewURLCollector creates a new URLCollector. redisClient may be nil.
func NewURLCollector(redisClient *redis.Client, redisKey string) *URLCollector {
	return &URLCollector{
		redisClient: redisClient,
		memoryCache: make(map[string]struct{}),
		ordered:     make([]string, 0),
		redisKey:    redisKey,
	}
}

// Reset clears the in-memory set and the Redis mirror left over from a previous run.
func (c *URLCollector) Reset(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.memoryCache = make(map[string]struct{})
	c.ordered = c.ordered[:0]

	if c.redisClient != nil {
		if err := c.redisClient.Del(ctx, c.redisKey).Err(); err != nil {
			log.Warn().Err(err).Str("key", c.redisKey).Msg("Failed to clear previous run data from Redis.")
		}
	}
}

// Add adds a URL to the collector. It returns true if the URL was new.
func (c *URLCollector) Add(ctx context.Context, url string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.memoryCache[url]; exists {
		return false
	}

	c.memoryCache[url] = struct{}{}
	c.ordered = append(c.ordered, url)

	if c.redisClient != nil {
		if err := c.redisClient.SAdd(ctx, c.redisKey, url).Err(); err != nil {
			log.Warn().Err(err).Str("url", url).Msg("Failed to mirror URL to Redis, keeping it in memory only.")
		}
	}
	return true
}

// Has checks if a URL has already been collected.
func (c *URLCollector) Has(url string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, exists := c.memoryCache[url]
	return exists
}

// Len returns the number of distinct URLs collected.
func (c *URLCollector) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.ordered)
}

// URLs returns the collected URLs in first-seen order.
func (c *URLCollector) URLs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	urls := make([]string, len(c.ordered))
	copy(urls, c.ordered)
	return urls
}
