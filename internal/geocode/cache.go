package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/diewo77/zone-api/internal/metrics"
)

// CachedClient fronts a Client with a redis cache for reverse lookups. The
// BAN constrains call volume and a coordinate's commune is stable, so cached
// entries stay valid for a long time. Search results are not cached: free
// text is too high-cardinality to be worth the memory.
type CachedClient struct {
	Inner *Client
	RDB   *redis.Client
	TTL   time.Duration
}

// NewCachedClient wraps inner; rdb may be nil, in which case calls pass
// through untouched.
func NewCachedClient(inner *Client, rdb *redis.Client) *CachedClient {
	return &CachedClient{Inner: inner, RDB: rdb, TTL: 24 * time.Hour}
}

// OpenRedisFromEnv returns a redis client from REDIS_ADDR / REDIS_PASSWORD /
// REDIS_DB, or nil when REDIS_ADDR is unset (cache disabled).
func OpenRedisFromEnv() *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil
	}
	dbn := 0
	if s := os.Getenv("REDIS_DB"); s != "" {
		fmt.Sscanf(s, "%d", &dbn)
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       dbn,
	})
}

// cache key at 5 decimals ≈ 1m grid, well under commune granularity
func reverseKey(lat, lng float64) string {
	return fmt.Sprintf("ban:rev:%.5f:%.5f", lat, lng)
}

func (c *CachedClient) Reverse(ctx context.Context, lat, lng float64) (*Address, error) {
	if c.RDB == nil {
		return c.Inner.Reverse(ctx, lat, lng)
	}
	key := reverseKey(lat, lng)
	if raw, err := c.RDB.Get(ctx, key).Result(); err == nil {
		var a Address
		if json.Unmarshal([]byte(raw), &a) == nil {
			metrics.CacheHitsTotal.Inc()
			return &a, nil
		}
	}
	metrics.CacheMissesTotal.Inc()
	a, err := c.Inner.Reverse(ctx, lat, lng)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(a); err == nil {
		// cache write failures are not worth failing the request over
		_ = c.RDB.Set(ctx, key, raw, c.TTL).Err()
	}
	return a, nil
}

func (c *CachedClient) Search(ctx context.Context, query string) (*Address, error) {
	return c.Inner.Search(ctx, query)
}
