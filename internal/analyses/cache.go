package analyses

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keeps terminal analyses close to the read path.
type Cache interface {
	Get(ctx context.Context, analysisID string) (Analysis, bool, error)
	Set(ctx context.Context, analysis Analysis) error
	Delete(ctx context.Context, analysisID string) error
}

const cacheKeyPrefix = "analysis:"

func cacheKey(analysisID string) string {
	return cacheKeyPrefix + analysisID
}

// RedisCache stores analyses as JSON with a TTL.
type RedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisCache builds a cache over client.
func NewRedisCache(client redis.Cmdable, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, analysisID string) (Analysis, bool, error) {
	raw, err := c.client.Get(ctx, cacheKey(analysisID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Analysis{}, false, nil
		}
		return Analysis{}, false, fmt.Errorf("cache get: %w", err)
	}
	var a cachedAnalysis
	if err := json.Unmarshal(raw, &a); err != nil {
		return Analysis{}, false, fmt.Errorf("cache decode: %w", err)
	}
	return a.toAnalysis(), true, nil
}

// Set stores terminal analyses only; queued and processing records change
// without passing through the cache.
func (c *RedisCache) Set(ctx context.Context, analysis Analysis) error {
	if !analysis.IsTerminal() {
		return nil
	}
	raw, err := json.Marshal(newCachedAnalysis(analysis))
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(analysis.ID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, analysisID string) error {
	if err := c.client.Del(ctx, cacheKey(analysisID)).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// cachedAnalysis keeps the fields the API hides, so a cache hit is a full record.
type cachedAnalysis struct {
	Analysis
	PayloadKey string `json:"payloadKey,omitempty"`
}

func newCachedAnalysis(a Analysis) cachedAnalysis {
	return cachedAnalysis{Analysis: a, PayloadKey: a.PayloadKey}
}

func (c cachedAnalysis) toAnalysis() Analysis {
	a := c.Analysis
	a.PayloadKey = c.PayloadKey
	return a
}

// NopCache is used when Redis is not configured.
type NopCache struct{}

func (NopCache) Get(context.Context, string) (Analysis, bool, error) { return Analysis{}, false, nil }
func (NopCache) Set(context.Context, Analysis) error                 { return nil }
func (NopCache) Delete(context.Context, string) error                { return nil }

var (
	_ Cache = (*RedisCache)(nil)
	_ Cache = NopCache{}
)
