// Package querycache is the Redis-backed cache for search results. Searches
// with equivalent token sets share one cache entry, concurrent identical
// misses are collapsed with singleflight, and every index mutation flushes
// the whole keyspace, since any new document can change TF-IDF ranking
// globally.
package querycache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/nvelichkov/fieldsearch/internal/index"
	"github.com/nvelichkov/fieldsearch/pkg/config"
	pkgredis "github.com/nvelichkov/fieldsearch/pkg/redis"
)

const keyPrefix = "fieldsearch:query:"

// Cache memoizes search results in Redis.
type Cache struct {
	client *pkgredis.Client
	cfg    config.RedisConfig
	group  singleflight.Group
	logger *slog.Logger
	hits   atomic.Int64
	misses atomic.Int64
}

func New(client *pkgredis.Client, cfg config.RedisConfig) *Cache {
	return &Cache{
		client: client,
		cfg:    cfg,
		logger: slog.Default().With("component", "query-cache"),
	}
}

// Get returns the cached result set for query, if present.
func (c *Cache) Get(ctx context.Context, query string) ([]index.Document, bool) {
	key := c.buildKey(query)
	data, err := c.client.Get(ctx, key)
	if err != nil {
		if !pkgredis.IsNilError(err) {
			c.logger.Error("cache get failed", "key", key, "error", err)
		}
		c.misses.Add(1)
		return nil, false
	}
	var docs []index.Document
	if err := json.Unmarshal([]byte(data), &docs); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return docs, true
}

// GetOrCompute returns the cached result for query or computes and stores
// it, collapsing concurrent identical queries into one computation. The
// second return reports whether the result came from the cache.
func (c *Cache) GetOrCompute(
	ctx context.Context,
	query string,
	compute func() []index.Document,
) ([]index.Document, bool) {
	if docs, ok := c.Get(ctx, query); ok {
		return docs, true
	}
	key := c.buildKey(query)
	val, _, _ := c.group.Do(key, func() (any, error) {
		if docs, ok := c.Get(ctx, query); ok {
			return docs, nil
		}
		docs := compute()
		c.set(ctx, key, docs)
		return docs, nil
	})
	return val.([]index.Document), false
}

// Invalidate deletes every cached query result.
func (c *Cache) Invalidate(ctx context.Context) error {
	deleted, err := c.client.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return fmt.Errorf("invalidating query cache: %w", err)
	}
	c.logger.Debug("query cache invalidated", "keys_deleted", deleted)
	return nil
}

// Stats returns lifetime hit and miss counts.
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *Cache) set(ctx context.Context, key string, docs []index.Document) {
	data, err := json.Marshal(docs)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.cfg.CacheTTL); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

func (c *Cache) buildKey(query string) string {
	hash := sha256.Sum256([]byte(normalizeQuery(query)))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}

// normalizeQuery lower-cases and sorts the query words so that
// permutations of the same terms share a cache entry. Ordering is safe
// because both the pruning strategies and TF-IDF scoring are commutative
// over tokens.
func normalizeQuery(query string) string {
	words := strings.Fields(strings.ToLower(query))
	sort.Strings(words)
	return strings.Join(words, " ")
}
